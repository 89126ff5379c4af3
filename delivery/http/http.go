package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultClientTimeout = 30 * time.Second

// DefaultClient is the traced HTTP client for outgoing requests.
var DefaultClient = NewClient(defaultClientTimeout)

// NewClient returns an HTTP client with the given timeout whose requests are traced.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// RequestUnmarshaler is any type capable to unmarshal data from HTTP request to itself.
type RequestUnmarshaler interface {
	UnmarshalHTTPRequest(c echo.Context) error
}

// Validator is a request that checks its own fields after unmarshalling.
type Validator interface {
	Validate() error
}

// ParseRequest unmarshals the request into req and validates it
// if req implements Validator.
func ParseRequest(c echo.Context, req RequestUnmarshaler) error {
	if err := req.UnmarshalHTTPRequest(c); err != nil {
		return err
	}

	if v, ok := req.(Validator); ok {
		return v.Validate()
	}
	return nil
}
