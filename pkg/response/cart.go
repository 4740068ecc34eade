package response

// CartItem carries display-ready money strings; the services keep the exact
// decimals.
type CartItem struct {
	ProductID int    `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

type Cart struct {
	Items    []CartItem `json:"items"`
	Subtotal string     `json:"subtotal"`
	Tax      string     `json:"tax"`
	Total    string     `json:"total"`
	Count    int        `json:"count"`
}

type CheckoutReceipt struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}
