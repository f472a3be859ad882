package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"
)

// AuthClient handles communication with the identity provider. Identity
// issuance lives entirely in that service; we only verify that a session it
// issued is still alive.
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAuthClient creates a new identity provider client
func NewAuthClient(cfg *config.Configuration) *AuthClient {
	return &AuthClient{
		baseURL: cfg.ExternalServices.AuthService.URL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.ExternalServices.AuthService.Timeout) * time.Second,
		},
	}
}

// GetSessionById retrieves session info from the identity provider
func (c *AuthClient) GetSessionById(ctx context.Context, sessionID string) (*models.Session, error) {
	url := fmt.Sprintf("%s/session/%s", c.baseURL, sessionID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, models.ErrSessionNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth service returned status: %d", resp.StatusCode)
	}

	var response struct {
		Session *models.Session `json:"session"`
		Status  string          `json:"status"`
		Message string          `json:"message"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return response.Session, nil
}
