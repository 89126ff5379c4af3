package http

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/plunderswap/sor/domain"
)

// Span returns the request context and the span started by the tracing middleware.
func Span(c echo.Context) (context.Context, trace.Span) {
	ctx := c.Request().Context()
	return ctx, trace.SpanFromContext(ctx)
}

// RecordSpanError records err, if any, with the status code it maps to.
// The span is ended by the middleware.
func RecordSpanError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err, trace.WithAttributes(attribute.Int("sor.error.status_code", domain.GetStatusCode(err))))
}
