package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/pdm/pkg/validate"
	"github.com/stretchr/testify/assert"
)

type productForm struct {
	Code     string `json:"code" validate:"required,alpha_dash,max=100"`
	Name     string `json:"name" validate:"required,max=255"`
	Category string `json:"category" validate:"nullable,max=100"`
	Unit     string `json:"unit" validate:"nullable,in=piece,box,pallet"`
	Stock    int    `json:"stock" validate:"nullable,gte=0"`
}

func TestStructValid(t *testing.T) {
	errs := validate.Struct(&productForm{
		Code: "SKU-1", Name: "Widget", Unit: "box", Stock: 3,
	})
	assert.False(t, validate.HasErrors(errs), "unexpected errors: %v", errs)
}

func TestStructRequired(t *testing.T) {
	errs := validate.Struct(&productForm{Name: "Widget"})
	assert.Equal(t, "The code field is required.", errs["code"])

	// Whitespace-only counts as empty.
	errs = validate.Struct(&productForm{Code: "  ", Name: "Widget"})
	assert.Contains(t, errs, "code")
}

func TestStructNullableSkipsEmpty(t *testing.T) {
	errs := validate.Struct(&productForm{Code: "SKU-1", Name: "Widget"})
	assert.NotContains(t, errs, "category")
	assert.NotContains(t, errs, "unit")
}

func TestStructMaxLength(t *testing.T) {
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	errs := validate.Struct(&productForm{Code: string(long), Name: "Widget"})
	assert.Equal(t, "The code must not exceed 100 characters.", errs["code"])
}

func TestStructAlphaDash(t *testing.T) {
	errs := validate.Struct(&productForm{Code: "SKU 1!", Name: "Widget"})
	assert.Contains(t, errs["code"], "letters, numbers, dashes")
}

func TestStructIn(t *testing.T) {
	errs := validate.Struct(&productForm{Code: "SKU-1", Name: "Widget", Unit: "crate"})
	assert.Equal(t, "The selected unit is invalid.", errs["unit"])
}

func TestStructFirstFailingRuleWins(t *testing.T) {
	// Both alpha_dash and max fail; only the first is reported.
	long := make([]byte, 120)
	for i := range long {
		long[i] = '!'
	}
	errs := validate.Struct(&productForm{Code: string(long), Name: "Widget"})
	assert.Contains(t, errs["code"], "letters, numbers, dashes")
}

func TestStructNonStructInput(t *testing.T) {
	assert.Empty(t, validate.Struct("not a struct"))
	assert.Empty(t, validate.Struct(42))
}
