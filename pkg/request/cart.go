package request

type UpdateQuantity struct {
	Delta int `validate:"required" json:"delta"`
}
