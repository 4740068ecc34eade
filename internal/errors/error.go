package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrSessionNotFound  = errors.New("no session present")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrRequestInFlight  = errors.New("another auth request is already in flight")
	ErrProductNotFound  = errors.New("product not found")
	ErrEmptyCart        = errors.New("your cart is empty")
	ErrClearUnconfirmed = errors.New("clearing the cart requires confirmation")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
