package activation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// defaultProbeTimeout keeps the capability probe short: a dead endpoint must
// fail fast into the fallback path, not hang the UI.
const defaultProbeTimeout = 750 * time.Millisecond

// HTTPQuerier implements the primary capability check by probing the watch
// process's local status endpoint.
type HTTPQuerier struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPQuerier builds a querier with the probe timeout applied.
func NewHTTPQuerier(baseURL string) *HTTPQuerier {
	return &HTTPQuerier{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: defaultProbeTimeout},
	}
}

// ExtensionState implements CapabilityQuerier.
func (q *HTTPQuerier) ExtensionState(ctx context.Context, extensionID string) (bool, error) {
	client := q.Client
	if client == nil {
		client = &http.Client{Timeout: defaultProbeTimeout}
	}
	url := q.BaseURL + "/extension/" + extensionID + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("activation: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("activation: probe: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		// Endpoint is alive but does not know this extension id.
		return false, ErrIndeterminate
	default:
		return false, fmt.Errorf("activation: probe status %d", resp.StatusCode)
	}

	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("activation: decode probe response: %w", err)
	}
	return body.Enabled, nil
}
