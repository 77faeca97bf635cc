package repository

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		cents int64
	}{
		{name: "whole", in: "120", cents: 12000},
		{name: "two decimals", in: "32.50", cents: 3250},
		{name: "rounds half up", in: "0.125", cents: 13},
		{name: "rounds down", in: "19.994", cents: 1999},
		{name: "zero", in: "0", cents: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := decimal.RequireFromString(tt.in)
			assert.Equal(t, tt.cents, ToCents(d))
			assert.True(t, FromCents(tt.cents).Equal(d.Round(2)))
		})
	}
}
