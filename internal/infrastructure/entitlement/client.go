package entitlement

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartbeam/photo-service/internal/entity"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

const _defaultTimeout = 5 * time.Second

// Client fetches the current entitlement snapshot from the purchase provider.
type Client struct {
	url   string
	token string

	httpClient *http.Client
}

func New(url, token string, opts ...Option) *Client {
	c := &Client{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: _defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type snapshotResponse struct {
	Success bool   `json:"success"`
	Tier    string `json:"tier"`
	Error   string `json:"error,omitempty"`
}

func (c *Client) Snapshot(ctx context.Context, profileID uuid.UUID) (*entity.Entitlement, error) {
	url := fmt.Sprintf("%s/subscribers/%s", c.url, profileID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("entitlement Client - Snapshot - http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entitlement Client - Snapshot - httpClient.Do: %w: %w", errs.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("entitlement Client - Snapshot: %w: status %d", errs.ErrServiceUnavailable, resp.StatusCode)
	}

	var res snapshotResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("entitlement Client - Snapshot - json.Decode: %w: %w", errs.ErrServiceUnavailable, err)
	}

	if !res.Success {
		return nil, fmt.Errorf("entitlement Client - Snapshot: %w: %s", errs.ErrServiceUnavailable, res.Error)
	}

	tier := entity.Tier(res.Tier)
	if tier != entity.TierPremium {
		tier = entity.TierFree
	}

	return &entity.Entitlement{Tier: tier}, nil
}
