package invoice

import (
	"testing"
	"time"

	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice() *Invoice {
	return &Invoice{
		ID:            "inv_test_1",
		InvoiceNumber: "INV-1001",
		CustomerID:    "cust_test_1",
		Currency:      "usd",
		DueDate:       time.Now().UTC().Add(14 * 24 * time.Hour),
		InvoiceStatus: types.InvoiceStatusDraft,
		LineItems: []*LineItem{
			{
				ID:        "li_test_1",
				ProductID: "prod_test_1",
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(10),
			},
			{
				ID:        "li_test_2",
				ProductID: "prod_test_2",
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: decimal.NewFromInt(5),
			},
		},
		TaxRate:   decimal.NewFromFloat(0.1),
		BaseModel: types.BaseModel{Status: types.StatusPublished},
	}
}

func TestComputeTotals(t *testing.T) {
	inv := testInvoice()
	require.NoError(t, inv.ComputeTotals())

	// 2 x $10 + 1 x $5 = $25, 10% tax = $2.50, total $27.50.
	assert.True(t, decimal.NewFromInt(25).Equal(inv.Subtotal), "subtotal %s", inv.Subtotal)
	assert.True(t, decimal.NewFromFloat(2.5).Equal(inv.Tax), "tax %s", inv.Tax)
	assert.True(t, decimal.NewFromFloat(27.5).Equal(inv.Total), "total %s", inv.Total)
	assert.True(t, inv.Total.Equal(inv.AmountDue))

	assert.True(t, decimal.NewFromInt(20).Equal(inv.LineItems[0].Amount))
	assert.True(t, decimal.NewFromInt(5).Equal(inv.LineItems[1].Amount))
}

func TestComputeTotalsRoundsTaxToCurrency(t *testing.T) {
	inv := testInvoice()
	inv.LineItems = []*LineItem{
		{
			ID:        "li_test_1",
			ProductID: "prod_test_1",
			Quantity:  decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromFloat(99.99),
		},
	}
	inv.TaxRate = decimal.NewFromFloat(0.0725)
	require.NoError(t, inv.ComputeTotals())

	// 99.99 * 0.0725 = 7.249275, rounds to 7.25.
	assert.Equal(t, "7.25", inv.Tax.StringFixed(2))
	assert.Equal(t, "107.24", inv.Total.StringFixed(2))
}

func TestComputeTotalsZeroDecimalCurrency(t *testing.T) {
	inv := testInvoice()
	inv.Currency = "jpy"
	inv.TaxRate = decimal.NewFromFloat(0.1)
	require.NoError(t, inv.ComputeTotals())

	// 25 + 2.5 tax rounds to whole yen.
	assert.Equal(t, "2", inv.Tax.String())
	assert.Equal(t, "28", inv.Total.String())
}

func TestComputeTotalsValidation(t *testing.T) {
	t.Run("no_line_items", func(t *testing.T) {
		inv := testInvoice()
		inv.LineItems = nil
		err := inv.ComputeTotals()
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("tax_rate_above_one", func(t *testing.T) {
		inv := testInvoice()
		inv.TaxRate = decimal.NewFromFloat(1.5)
		err := inv.ComputeTotals()
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("negative_unit_price", func(t *testing.T) {
		inv := testInvoice()
		inv.LineItems[0].UnitPrice = decimal.NewFromInt(-5)
		err := inv.ComputeTotals()
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestOutstanding(t *testing.T) {
	inv := testInvoice()
	require.NoError(t, inv.ComputeTotals())
	assert.True(t, inv.Outstanding().Equal(inv.Total))

	inv.AmountDue = decimal.NewFromInt(10)
	assert.True(t, decimal.NewFromInt(10).Equal(inv.Outstanding()))
}
