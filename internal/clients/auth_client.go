// internal/clients/auth_client.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"homeforge/internal/auth"
)

// AuthClient talks to the auth service.
type AuthClient struct {
	baseURL string
	breaker *gobreaker.CircuitBreaker
}

func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		baseURL: baseURL,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "auth",
			Timeout: 10 * time.Second,
		}),
	}
}

// Verify resolves a bearer token into an identity. An empty token resolves to
// no identity without a network round trip.
func (c *AuthClient) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	if token == "" {
		return nil, nil
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/verify", nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized {
			return (*auth.Identity)(nil), nil
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		var identity auth.Identity
		if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
			return nil, err
		}
		return &identity, nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return result.(*auth.Identity), nil
}
