//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/stdlib"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/platform/db/migrator"
	"github.com/you-humble/farm-connect/platform/logger"
	tcpostgres "github.com/you-humble/farm-connect/platform/testcontainers/postgres"
)

const migrationDir = "../../../migrations"

var (
	ctx  context.Context
	pgC  *tcpostgres.Container
	repo *repository
)

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Purchase Repository Integration Suite")
}

var _ = BeforeSuite(func() {
	ctx = context.Background()
	logger.SetNopLogger()

	By("starting postgres container")
	var err error
	pgC, err = tcpostgres.NewContainer(ctx)
	Expect(err).NotTo(HaveOccurred())

	By("running migrations")
	m := migrator.NewMigrator(stdlib.OpenDBFromPool(pgC.Pool()), migrationDir)
	Expect(m.Up(ctx)).To(Succeed())
	defer m.Close()

	repo = NewPurchaseRepository(pgC.Pool())
})

var _ = AfterSuite(func() {
	if pgC != nil {
		_ = pgC.Terminate(ctx)
	}
})

var _ = BeforeEach(func() {
	By("cleaning purchases table")
	_, err := pgC.Pool().Exec(ctx, "TRUNCATE TABLE purchases")
	Expect(err).NotTo(HaveOccurred())
})

func newPurchase(customerID, farmerID string) *model.Purchase {
	now := time.Now().UTC().Truncate(time.Microsecond)
	unit := decimal.RequireFromString("32.50")

	return &model.Purchase{
		ID:         uuid.New(),
		CustomerID: customerID,
		FarmerID:   farmerID,
		CropID:     gofakeit.UUID(),
		CropName:   gofakeit.Vegetable(),
		Quantity:   3,
		Unit:       model.CropUnitKg,
		UnitPrice:  unit,
		TotalPrice: unit.Mul(decimal.NewFromInt(3)),
		Status:     model.PurchaseStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

var _ = Describe("Purchase repository", func() {
	It("stores and reads back a purchase", func() {
		p := newPurchase(gofakeit.UUID(), gofakeit.UUID())
		Expect(repo.Create(ctx, p)).To(Succeed())

		got, err := repo.PurchaseByID(ctx, p.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.CropName).To(Equal(p.CropName))
		Expect(got.TotalPrice.String()).To(Equal("97.5"))
		Expect(got.Status).To(Equal(model.PurchaseStatusPending))
	})

	It("returns not found for unknown ids", func() {
		_, err := repo.PurchaseByID(ctx, uuid.New())
		Expect(err).To(MatchError(model.ErrNotFound))
	})

	It("lists by customer and by farmer", func() {
		customer, farmer := gofakeit.UUID(), gofakeit.UUID()
		Expect(repo.Create(ctx, newPurchase(customer, farmer))).To(Succeed())
		Expect(repo.Create(ctx, newPurchase(customer, gofakeit.UUID()))).To(Succeed())
		Expect(repo.Create(ctx, newPurchase(gofakeit.UUID(), farmer))).To(Succeed())

		byCustomer, err := repo.ListByCustomer(ctx, customer)
		Expect(err).NotTo(HaveOccurred())
		Expect(byCustomer).To(HaveLen(2))

		byFarmer, err := repo.ListByFarmer(ctx, farmer)
		Expect(err).NotTo(HaveOccurred())
		Expect(byFarmer).To(HaveLen(2))
	})

	It("moves status only from the expected state", func() {
		p := newPurchase(gofakeit.UUID(), gofakeit.UUID())
		Expect(repo.Create(ctx, p)).To(Succeed())

		Expect(repo.UpdateStatus(ctx, p.ID, model.PurchaseStatusPending, model.PurchaseStatusConfirmed)).To(Succeed())
		err := repo.UpdateStatus(ctx, p.ID, model.PurchaseStatusPending, model.PurchaseStatusConfirmed)
		Expect(err).To(MatchError(model.ErrInvalidTransition))
	})
})
