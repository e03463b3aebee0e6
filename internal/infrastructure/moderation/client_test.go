package moderation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartbeam/photo-service/internal/dto"
	"github.com/heartbeam/photo-service/internal/entity"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

func testRequest() dto.ModerationRequest {
	return dto.ModerationRequest{
		PhotoID:        uuid.New(),
		OwnerProfileID: uuid.New(),
		URL:            "https://cdn.example.com/photos/p/1.jpg",
	}
}

func TestCheckApproved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req checkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.PhotoID)
		assert.NotEmpty(t, req.URL)

		json.NewEncoder(w).Encode(checkResponse{Success: true, Approved: true})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")

	verdict, err := c.Check(context.Background(), testRequest())
	require.NoError(t, err)
	assert.True(t, verdict.Approved)
}

func TestCheckRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(checkResponse{
			Success:  true,
			Approved: false,
			Reason:   "explicit_content",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")

	verdict, err := c.Check(context.Background(), testRequest())
	require.NoError(t, err)
	assert.False(t, verdict.Approved)
	assert.Equal(t, entity.ReasonExplicitContent, verdict.Reason)
	assert.True(t, verdict.Rejecting())
}

// A 5xx from the service is an availability failure, not a verdict.
func TestCheckServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")

	verdict, err := c.Check(context.Background(), testRequest())
	assert.Nil(t, verdict)
	assert.ErrorIs(t, err, errs.ErrServiceUnavailable)
}

func TestCheckSuccessFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(checkResponse{Success: false, Error: "model overloaded"})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")

	_, err := c.Check(context.Background(), testRequest())
	assert.ErrorIs(t, err, errs.ErrServiceUnavailable)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestCheckConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, "secret")

	_, err := c.Check(context.Background(), testRequest())
	assert.ErrorIs(t, err, errs.ErrServiceUnavailable)
}
