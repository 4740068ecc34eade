package http

const (
	KEY_HEADER_CONTENT_TYPE       = "Content-Type"
	VALUE_HEADER_APPLICATION_JSON = "application/json"
)
