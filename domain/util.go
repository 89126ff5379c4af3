package domain

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
)

// ParseIntQueryParam parses an optional integer query parameter.
// Returns 0 if the parameter is not present.
func ParseIntQueryParam(c echo.Context, paramName string) (int, error) {
	paramValueStr := c.QueryParam(paramName)
	if paramValueStr == "" {
		return 0, nil
	}
	return strconv.Atoi(paramValueStr)
}

// ParseAddress parses a hex address. The literal "native" (any case) and an
// empty string are not addresses and return false.
func ParseAddress(s string) (common.Address, bool) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}

// IsNativeAlias returns true if s names the native coin instead of a token.
func IsNativeAlias(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "native")
}

// ParsePoolTypes parses pool type names. Empty input returns nil (all types).
func ParsePoolTypes(names []string) ([]PoolType, error) {
	if len(names) == 0 {
		return nil, nil
	}
	result := make([]PoolType, 0, len(names))
	for _, name := range splitAndTrim(strings.Join(names, ","), ",") {
		poolType, err := ParsePoolType(name)
		if err != nil {
			return nil, err
		}
		result = append(result, poolType)
	}
	return result, nil
}

// splitAndTrim splits a string by a separator and trims the resulting strings.
func splitAndTrim(s, sep string) []string {
	var result []string
	for _, val := range strings.Split(s, sep) {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// RequestPathKeyType is the context key type for the request path.
type RequestPathKeyType string

// RequestPathCtxKey stores the request path in the request context for metric labels.
const RequestPathCtxKey RequestPathKeyType = "request_path"

// ParseURLPath returns the path of the request URI.
func ParseURLPath(c echo.Context) (string, error) {
	parsedURL, err := url.Parse(c.Request().RequestURI)
	if err != nil {
		return "", err
	}
	return parsedURL.Path, nil
}

// GetURLPathFromContext returns the request path stored by the instrumentation
// middleware, or "unknown" for calls that did not come through HTTP.
func GetURLPathFromContext(ctx context.Context) string {
	requestPath, ok := ctx.Value(RequestPathCtxKey).(string)
	if !ok || len(requestPath) == 0 {
		return "unknown"
	}
	return requestPath
}
