package request

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

type Login struct {
	Email      string `validate:"required,email" json:"email"`
	Password   string `validate:"required"       json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

func (l Login) MarshalZerologObject(e *zerolog.Event) {
	e.Str("email", l.Email).Str("password", "***").Bool("rememberMe", l.RememberMe)
}

func (l Login) MarshalJSON() ([]byte, error) {
	l.Password = "***"
	type L Login
	return json.Marshal(L(l))
}

type Register struct {
	Name            string `validate:"required"                       json:"name"`
	Email           string `validate:"required,email"                 json:"email"`
	Password        string `validate:"required,min=8"                 json:"password"`
	ConfirmPassword string `validate:"required,eqfield=Password"      json:"confirmPassword"`
	AgreeTerms      bool   `validate:"required"                       json:"agreeTerms"`
}

func (r Register) MarshalZerologObject(e *zerolog.Event) {
	e.Str("name", r.Name).Str("email", r.Email).Str("password", "***")
}

func (r Register) MarshalJSON() ([]byte, error) {
	r.Password = "***"
	r.ConfirmPassword = "***"
	type R Register
	return json.Marshal(R(r))
}
