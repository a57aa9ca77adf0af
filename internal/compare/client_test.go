package compare

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/renewal-intel/internal/config"
	"github.com/meridian-advisory/renewal-intel/internal/model"
)

func TestCompare(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"verdict": "switch", "delta_bps": 225})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.CompareConfig{BaseURL: srv.URL, APIKey: "key-1"},
		WithHTTPClient(srv.Client()))

	mp := model.MergedProfile{
		Suitability: model.MergedSuitability{RiskTolerance: "Moderate"},
	}
	recs := []model.Recommendation{
		{ProductCatalogEntry: model.ProductCatalogEntry{ProductID: "A", Rate: "4.25%"}},
	}

	result, err := client.Compare(context.Background(), mp, recs)
	require.NoError(t, err)

	assert.Equal(t, "/v1/compare", gotPath)
	assert.Equal(t, "Bearer key-1", gotAuth)
	assert.Contains(t, gotBody, "profile")
	assert.Contains(t, gotBody, "recommendations")
	assert.Equal(t, "switch", result["verdict"])
}

func TestCompareNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.CompareConfig{BaseURL: srv.URL}, WithHTTPClient(srv.Client()))

	_, err := client.Compare(context.Background(), model.MergedProfile{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestCompareUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(config.CompareConfig{BaseURL: srv.URL})

	_, err := client.Compare(context.Background(), model.MergedProfile{}, nil)
	require.Error(t, err)
}

func TestCompareNoAPIKey(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.CompareConfig{BaseURL: srv.URL}, WithHTTPClient(srv.Client()))

	_, err := client.Compare(context.Background(), model.MergedProfile{}, nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}
