package entitlement

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartbeam/photo-service/internal/entity"
	"github.com/heartbeam/photo-service/pkg/types/errs"
)

func TestSnapshot(t *testing.T) {
	profileID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, profileID.String())
		json.NewEncoder(w).Encode(snapshotResponse{Success: true, Tier: "premium"})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")

	snap, err := c.Snapshot(context.Background(), profileID)
	require.NoError(t, err)
	assert.Equal(t, entity.TierPremium, snap.Tier)
}

func TestSnapshotUnknownTierFallsBackToFree(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(snapshotResponse{Success: true, Tier: "gold"})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")

	snap, err := c.Snapshot(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, entity.TierFree, snap.Tier)
}

func TestSnapshotProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")

	_, err := c.Snapshot(context.Background(), uuid.New())
	assert.ErrorIs(t, err, errs.ErrServiceUnavailable)
}
