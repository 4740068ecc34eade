package store

// Storage keys shared by the session manager and the cart store. The persisted
// layout mirrors the original storefront page so an existing deployment keeps
// its sessions and carts.
const (
	KeyToken      = "chocoblitz_token"
	KeyUser       = "chocoblitz_user"
	KeyRememberMe = "rememberMe"
	KeyCart       = "cart"
)
