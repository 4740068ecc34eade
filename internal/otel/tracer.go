package otel

import (
	"go.opentelemetry.io/otel"

	"github.com/chocoblitz/storefront/internal/common/constants"
)

var Tracer = otel.Tracer(constants.APP_MAIN_CHOCOBLITZ)
