package converter

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"github.com/you-humble/farm-connect/internal/model"
)

var markdownV1 = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

var (
	//go:embed templates/purchase_recorded.tmpl
	purchaseRecordedFS       embed.FS
	purchaseRecordedTemplate = template.Must(
		template.New("purchase_recorded.tmpl").
			Funcs(template.FuncMap{"md": markdownV1.Replace}).
			ParseFS(purchaseRecordedFS, "templates/purchase_recorded.tmpl"),
	)
)

type purchaseNotification struct {
	PurchaseID string
	CustomerID string
	Farmer     string
	CropName   string
	Quantity   int64
	Unit       string
	UnitPrice  string
	TotalPrice string
	Status     string
}

func BuildPurchaseRecorded(event model.PurchaseRecorded) (string, error) {
	p := event.Purchase

	farmer := event.FarmerName
	if farmer == "" {
		farmer = p.FarmerID
	}

	n := purchaseNotification{
		PurchaseID: p.ID.String(),
		CustomerID: p.CustomerID,
		Farmer:     farmer,
		CropName:   p.CropName,
		Quantity:   p.Quantity,
		Unit:       string(p.Unit),
		UnitPrice:  p.UnitPrice.StringFixed(2),
		TotalPrice: p.TotalPrice.StringFixed(2),
		Status:     string(p.Status),
	}

	var buf bytes.Buffer
	if err := purchaseRecordedTemplate.Execute(&buf, n); err != nil {
		return "", err
	}

	return buf.String(), nil
}
