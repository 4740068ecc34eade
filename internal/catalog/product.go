package catalog

import (
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryDark    Category = "dark"
	CategoryMilk    Category = "milk"
	CategoryWhite   Category = "white"
	CategorySpecial Category = "special"

	// FilterAll selects every product regardless of category.
	FilterAll = "all"
)

type Product struct {
	ID          int             `validate:"required,gt=0"                          json:"id"`
	Name        string          `validate:"required"                               json:"name"`
	Category    Category        `validate:"required,oneof=dark milk white special" json:"type"`
	Price       decimal.Decimal `validate:"price"                                  json:"price"`
	Image       string          `validate:"required"                               json:"image"`
	Description string          `validate:"required"                               json:"desc"`
}
