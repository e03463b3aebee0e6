package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/heartbeam/photo-service/internal/dto"
	"github.com/heartbeam/photo-service/internal/entity"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

const _defaultTimeout = 10 * time.Second

// Client invokes the remote photo classification procedure.
//
// The endpoint is a named RPC: JSON body in, bearer credential, JSON result
// with a success/error discriminant. An explicit verdict (approved or not)
// comes back as (*entity.Verdict, nil); any transport or service failure is
// returned as an error wrapping errs.ErrServiceUnavailable so callers can
// tell the two apart.
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

type checkRequest struct {
	PhotoID        string `json:"photo_id"`
	OwnerProfileID string `json:"profile_id"`
	URL            string `json:"url"`
}

type checkResponse struct {
	Success  bool   `json:"success"`
	Approved bool   `json:"approved"`
	Reason   string `json:"reason,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (c *Client) Check(ctx context.Context, req dto.ModerationRequest) (*entity.Verdict, error) {
	body, err := json.Marshal(checkRequest{
		PhotoID:        req.PhotoID.String(),
		OwnerProfileID: req.OwnerProfileID.String(),
		URL:            req.URL,
	})
	if err != nil {
		return nil, fmt.Errorf("moderation Client - Check - json.Marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("moderation Client - Check - http.NewRequestWithContext: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("moderation Client - Check - httpClient.Do: %w: %w", errs.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moderation Client - Check: %w: status %d", errs.ErrServiceUnavailable, resp.StatusCode)
	}

	var res checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("moderation Client - Check - json.Decode: %w: %w", errs.ErrServiceUnavailable, err)
	}

	if !res.Success {
		return nil, fmt.Errorf("moderation Client - Check: %w: %s", errs.ErrServiceUnavailable, res.Error)
	}

	return &entity.Verdict{
		Approved: res.Approved,
		Reason:   entity.RejectReason(res.Reason),
	}, nil
}
