package sqshttp

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/plunderswap/sor/domain/json"
)

// Get makes a GET request to url and unmarshals the response body into the given type.
// Non 200 responses are errors.
func Get[k any](ctx context.Context, client *http.Client, url string) (*k, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Read the response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, StatusError{URL: url, StatusCode: resp.StatusCode, Body: string(body)}
	}

	// Unmarshal the response body
	var unmarshalledData k
	if err := json.Unmarshal(body, &unmarshalledData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal: %w", err)
	}

	return &unmarshalledData, nil
}

// StatusError is returned for non 200 responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}
