package log

const (
	KeyAppName       = "app"
	KeyRequestID     = "requestId"
	KeyProcess       = "process"
	KeyTag           = "tag"
	KeyConfig        = "config"
	KeyEmail         = "email"
	KeyUser          = "user"
	KeyProductID     = "productId"
	KeyCategory      = "category"
	KeyQuantity      = "quantity"
	KeyDelta         = "delta"
	KeyCart          = "cart"
	KeyCartItems     = "cartItems"
	KeyCartItemCount = "cartItemCount"
	KeyCacheKey      = "cacheKey"
	KeyReviewID      = "reviewId"
	KeyRequestBody   = "requestBody"
	KeyRequestHeader = "requestHeader"
	KeyRequestHost   = "host"
	KeyRequestIp     = "requesterIP"
	KeyRequestMethod = "requestMethod"
	KeyRequestURI    = "requestURI"
	KeyRequestURL    = "requestURL"
	KeyTraceID       = "traceId"
	KeySpanID        = "spanId"
)
