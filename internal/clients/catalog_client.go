// internal/clients/catalog_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"homeforge/internal/catalog"
)

// CatalogClient talks to the catalog service. Calls run through a circuit
// breaker: a flapping catalog service fails fast instead of stalling every
// session start behind timeouts.
type CatalogClient struct {
	baseURL string
	breaker *gobreaker.CircuitBreaker
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "catalog",
			Timeout: 10 * time.Second,
		}),
	}
}

// GetCatalog fetches the full catalog snapshot for a plan.
func (c *CatalogClient) GetCatalog(ctx context.Context, planID string) (*catalog.Snapshot, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/catalog/%s", c.baseURL, planID), nil)
		if err != nil {
			return nil, err
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		var snapshot catalog.Snapshot
		if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
			return nil, err
		}
		return &snapshot, nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog service: %w", err)
	}

	return result.(*catalog.Snapshot), nil
}
