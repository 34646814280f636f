package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorsMatchSentinels(t *testing.T) {
	verrs := &ValidationErrors{}
	verrs.Add(MissingField(FieldCustomerName))
	verrs.Add(UnknownService("waschen"))

	var err error = verrs
	assert.ErrorIs(t, err, ErrMissingField)
	assert.ErrorIs(t, err, ErrUnknownService)
	assert.True(t, verrs.Has(FieldCustomerName))
	assert.True(t, verrs.Has(FieldSelectedService))
	assert.False(t, verrs.Has(FieldVehicleNumber))

	var target *ValidationErrors
	require.True(t, errors.As(err, &target))
	assert.Len(t, target.Errors, 2)
	assert.Equal(t, "Missing required field: customerName", target.Errors[0].Message)
	assert.Equal(t, "unknown_service", target.Errors[1].Code)
}

func TestEmptyValidationErrors(t *testing.T) {
	var verrs *ValidationErrors
	assert.True(t, verrs.Empty())
	assert.Equal(t, "validation error", verrs.Error())
}

func TestLineItemAmounts(t *testing.T) {
	item := LineItem{Description: "Felgen", NetPrice: decimal.NewFromInt(100)}
	assert.True(t, item.TaxAmount(TaxRate).Equal(decimal.NewFromInt(19)))
	assert.True(t, item.Gross(TaxRate).Equal(decimal.NewFromInt(119)))
}
