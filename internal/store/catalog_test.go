package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validAdd() AddProductInput {
	return AddProductInput{
		SKU:          "TEST123",
		Name:         "Widget",
		CategoryName: "Electronics",
		MaterialName: "Plastic",
		Price:        decimal.NewFromFloat(99.99),
	}
}

func TestValidateAddProduct(t *testing.T) {
	assert.NoError(t, validateAddProduct(validAdd()))

	missingSKU := validAdd()
	missingSKU.SKU = "  "
	assert.ErrorIs(t, validateAddProduct(missingSKU), ErrValidation)

	missingName := validAdd()
	missingName.Name = ""
	assert.ErrorIs(t, validateAddProduct(missingName), ErrValidation)

	zeroPrice := validAdd()
	zeroPrice.Price = decimal.Zero
	assert.ErrorIs(t, validateAddProduct(zeroPrice), ErrValidation)

	negativePrice := validAdd()
	negativePrice.Price = decimal.NewFromInt(-5)
	assert.ErrorIs(t, validateAddProduct(negativePrice), ErrValidation)
}

func TestValidateUpdateProduct(t *testing.T) {
	valid := UpdateProductInput{
		Name:       "Widget",
		CategoryID: uuid.New(),
		MaterialID: uuid.New(),
		Price:      decimal.NewFromInt(10),
	}
	assert.NoError(t, validateUpdateProduct(valid))

	noCategory := valid
	noCategory.CategoryID = uuid.Nil
	assert.ErrorIs(t, validateUpdateProduct(noCategory), ErrValidation)

	noName := valid
	noName.Name = ""
	assert.ErrorIs(t, validateUpdateProduct(noName), ErrValidation)

	badPrice := valid
	badPrice.Price = decimal.Zero
	assert.ErrorIs(t, validateUpdateProduct(badPrice), ErrValidation)
}
