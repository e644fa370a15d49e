package usecase

import (
	"errors"
	"testing"

	"github.com/congregateapp/congregate/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount("25.50", "amount")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("25.50")))

	_, err = parseAmount("not-a-number", "amount")
	var validationErr *model.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "amount", validationErr.Param)

	_, err = parseAmount("0", "amount")
	require.Error(t, err)

	_, err = parseAmount("-3.00", "amount")
	require.Error(t, err)
}
