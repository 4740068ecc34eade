package constants

const (
	APP_STOREFRONT      = "storefront"
	APP_MAIN_CHOCOBLITZ = "main chocoblitz"
)
