package creditnote

import (
	"testing"
	"time"

	"github.com/billflow/billflow/internal/domain/invoice"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCreditNote() *CreditNote {
	return &CreditNote{
		ID:               "cn_test_1",
		CreditNoteNumber: "CN-2025-001",
		CustomerID:       "cust_test_1",
		InvoiceID:        "inv_test_1",
		Amount:           decimal.NewFromInt(50),
		Currency:         "usd",
		Reason:           types.CreditNoteReasonBillingError,
		Description:      "Overcharged for seats",
		CreditNoteDate:   time.Now().UTC(),
		CreditNoteStatus: types.CreditNoteStatusOpen,
		BaseModel:        types.BaseModel{Status: types.StatusPublished},
	}
}

func TestValidateAmount(t *testing.T) {
	inv := &invoice.Invoice{
		ID:        "inv_test_1",
		AmountDue: decimal.NewFromInt(100),
	}

	t.Run("within_outstanding_balance", func(t *testing.T) {
		assert.NoError(t, ValidateAmount(decimal.NewFromInt(50), inv))
	})

	t.Run("equal_to_outstanding_balance", func(t *testing.T) {
		assert.NoError(t, ValidateAmount(decimal.NewFromInt(100), inv))
	})

	t.Run("exceeds_outstanding_balance", func(t *testing.T) {
		err := ValidateAmount(decimal.NewFromInt(150), inv)
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("zero_amount", func(t *testing.T) {
		err := ValidateAmount(decimal.Zero, inv)
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})

	t.Run("negative_amount", func(t *testing.T) {
		err := ValidateAmount(decimal.NewFromInt(-10), inv)
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestApply(t *testing.T) {
	t.Run("open_credit_note", func(t *testing.T) {
		cn := testCreditNote()
		require.NoError(t, cn.Apply())
		assert.Equal(t, types.CreditNoteStatusApplied, cn.CreditNoteStatus)
		require.NotNil(t, cn.AppliedAt)
	})

	t.Run("already_applied", func(t *testing.T) {
		cn := testCreditNote()
		require.NoError(t, cn.Apply())
		err := cn.Apply()
		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))
	})

	t.Run("voided_credit_note", func(t *testing.T) {
		cn := testCreditNote()
		require.NoError(t, cn.Void("duplicate entry"))
		err := cn.Apply()
		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))
	})
}

func TestVoid(t *testing.T) {
	t.Run("open_credit_note", func(t *testing.T) {
		cn := testCreditNote()
		require.NoError(t, cn.Void("issued in error"))
		assert.Equal(t, types.CreditNoteStatusVoided, cn.CreditNoteStatus)
		assert.Equal(t, "issued in error", cn.VoidReason)
		require.NotNil(t, cn.VoidedAt)
	})

	t.Run("applied_credit_note", func(t *testing.T) {
		cn := testCreditNote()
		require.NoError(t, cn.Apply())
		err := cn.Void("changed my mind")
		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))
	})

	t.Run("already_voided", func(t *testing.T) {
		cn := testCreditNote()
		require.NoError(t, cn.Void("first void"))
		err := cn.Void("second void")
		require.Error(t, err)
		assert.True(t, ierr.IsInvalidOperation(err))
	})

	t.Run("missing_reason", func(t *testing.T) {
		cn := testCreditNote()
		err := cn.Void("")
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}
