package validate

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ValidatePrice accepts any non-negative decimal; registered under the "price" tag.
func ValidatePrice(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return !d.IsNegative()
}

func New() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterValidation("price", ValidatePrice)
	return validate
}
