package response

import "encoding/json"

// Auth is the remote auth API's success shape. User is kept raw: its fields
// belong to the API and are mirrored into storage untouched.
type Auth struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

type AuthFailure struct {
	Message string `json:"message"`
}

// Session describes the locally persisted session for the view.
type Session struct {
	Authenticated bool            `json:"authenticated"`
	User          json.RawMessage `json:"user,omitempty"`
	TokenExpiry   string          `json:"tokenExpiry,omitempty"`
}
