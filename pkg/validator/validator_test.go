package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	ShopID   string `validate:"required"`
	Quantity int    `validate:"gte=1"`
	Kind     string `validate:"omitempty,oneof=product order shipping"`
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, Validate(sampleRequest{ShopID: "shop-1", Quantity: 2, Kind: "order"}))
}

func TestValidate_FieldErrors(t *testing.T) {
	err := Validate(sampleRequest{Quantity: 0, Kind: "bogus"})
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["ShopID"])
	assert.Equal(t, "must be greater than or equal to 1", fields["Quantity"])
	assert.Equal(t, "must be one of: product order shipping", fields["Kind"])
	assert.Contains(t, err.Error(), "field 'ShopID' is required")
}
