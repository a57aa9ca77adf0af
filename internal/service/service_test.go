package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/renewal-intel/internal/compare"
	"github.com/meridian-advisory/renewal-intel/internal/config"
	"github.com/meridian-advisory/renewal-intel/internal/flagengine"
	"github.com/meridian-advisory/renewal-intel/internal/model"
	"github.com/meridian-advisory/renewal-intel/internal/recommend"
	"github.com/meridian-advisory/renewal-intel/internal/store"
	"github.com/meridian-advisory/renewal-intel/internal/sureify"
)

// stubSource wraps the offline client with injectable failures.
type stubSource struct {
	sureify.Client
	productErr     error
	suitabilityErr error
}

func (s *stubSource) GetProductOptions(ctx context.Context) ([]map[string]any, error) {
	if s.productErr != nil {
		return nil, s.productErr
	}
	return s.Client.GetProductOptions(ctx)
}

func (s *stubSource) GetSuitabilityData(ctx context.Context) ([]map[string]any, error) {
	if s.suitabilityErr != nil {
		return nil, s.suitabilityErr
	}
	return s.Client.GetSuitabilityData(ctx)
}

func testConfig() config.Config {
	return config.Config{Engine: flagengine.DefaultEngineConfig()}
}

func newStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestEvaluateBook(t *testing.T) {
	st := newStore(t)
	svc := New(testConfig(), sureify.NewMock(), st, nil)
	ctx := context.Background()

	eval, err := svc.EvaluateBook(ctx, "advisor-1")
	require.NoError(t, err)

	require.Len(t, eval.Book.Policies, 3)
	assert.Equal(t, "POL-1001", eval.Book.Policies[0].Policy.ID)
	assert.Equal(t, "POL-1002", eval.Book.Policies[1].Policy.ID)
	assert.Equal(t, "POL-1003", eval.Book.Policies[2].Policy.ID)

	require.Len(t, eval.Alerts, 3)
	assert.Equal(t, "alert-POL-1001-renewal", eval.Alerts[0].ID)
	assert.Equal(t, "N/A", eval.Alerts[1].Carrier, "missing carrier renders as N/A")
	assert.Equal(t, 3, eval.Stats.Total)

	// The fixed-annuity policy flags a replacement conversation.
	assert.True(t, eval.Book.Policies[0].Flags.ReplacementOpportunity)
	assert.Contains(t, eval.Alerts[0].AlertTypes, model.AlertReplacementOpportunity)

	// The term policy carries data quality issues (no carrier, empty roles).
	assert.True(t, eval.Alerts[1].HasDataException)

	// Persisted for the dashboard.
	saved, err := st.ListAlerts(ctx, store.AlertFilter{Customer: "advisor-1"})
	require.NoError(t, err)
	assert.Len(t, saved, 3)

	stats, err := st.GetDashboardStats(ctx, "advisor-1")
	require.NoError(t, err)
	assert.Equal(t, eval.Stats, *stats)
}

func TestEvaluateRecordsWithoutStore(t *testing.T) {
	svc := New(testConfig(), sureify.NewMock(), nil, nil)

	eval, err := svc.EvaluateRecords(context.Background(), "advisor-1", []map[string]any{
		{"ID": "P-1", "status": "inforce"},
	})
	require.NoError(t, err)
	assert.Len(t, eval.Alerts, 1)
}

func TestEvaluateRecordsRejectsMalformedBatch(t *testing.T) {
	svc := New(testConfig(), sureify.NewMock(), nil, nil)

	_, err := svc.EvaluateRecords(context.Background(), "advisor-1", []map[string]any{
		{"ID": "P-1"},
		nil,
	})
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrInvalidInput))
}

func TestEvaluateRecordsPreservesOrderAcrossFanOut(t *testing.T) {
	cfg := testConfig()
	cfg.Engine.MaxConcurrentPolicies = 4
	svc := New(cfg, sureify.NewMock(), nil, nil)

	raws := make([]map[string]any, 50)
	want := make([]string, 50)
	for i := range raws {
		id := "P-" + string(rune('A'+i%26)) + string(rune('0'+i/26))
		raws[i] = map[string]any{"ID": id}
		want[i] = id
	}

	eval, err := svc.EvaluateRecords(context.Background(), "advisor-1", raws)
	require.NoError(t, err)
	require.Len(t, eval.Book.Policies, 50)
	for i, pr := range eval.Book.Policies {
		assert.Equal(t, want[i], pr.Policy.ID)
	}
}

func TestRecommendFromExternalCatalog(t *testing.T) {
	st := newStore(t)
	svc := New(testConfig(), sureify.NewMock(), st, nil)
	ctx := context.Background()

	run, err := svc.Recommend(ctx, "client-1", []byte(`{"suitability":{"riskTolerance":"Aggressive"}}`))
	require.NoError(t, err)

	// External entries ranked by rate, descending.
	require.Len(t, run.Recommendations, 3)
	assert.Equal(t, "EXT-501", run.Recommendations[0].ProductID)
	assert.Equal(t, "EXT-503", run.Recommendations[1].ProductID)
	assert.Equal(t, "EXT-502", run.Recommendations[2].ProductID)

	// The delta overrides the stored baseline's risk tolerance.
	assert.Equal(t, "Aggressive", run.MergedProfileSummary.Suitability.RiskTolerance)
	assert.Contains(t, run.Recommendations[0].MatchReason, "risk tolerance: Aggressive")

	assert.Equal(t, []string{"sureify_products", "db_suitability"}, run.Explanation.DataSourcesUsed)
	assert.Empty(t, run.Diagnostics)
	assert.Nil(t, run.Comparison)
	assert.NotEmpty(t, run.ReasonsToSwitch.Cons)

	// Persisted for audit.
	records, err := st.ListRecommendationRuns(ctx, "client-1", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, *run, records[0].Run)
}

func TestRecommendFallsBackToBaselineCatalog(t *testing.T) {
	st := newStore(t)
	rate := 4.25
	_, err := st.SaveBaselineProducts(context.Background(), []model.BaselineProduct{
		{ProductID: "B-1", ProductName: "Baseline Fixed 5", Carrier: "Granite Life", CurrentFixedRate: &rate},
	})
	require.NoError(t, err)

	src := &stubSource{Client: sureify.NewMock(), productErr: eris.New("feed down")}
	svc := New(testConfig(), src, st, nil)

	run, err := svc.Recommend(context.Background(), "client-1", nil)
	require.NoError(t, err, "an unreachable external catalog degrades, not fails")

	require.Len(t, run.Recommendations, 1)
	assert.Equal(t, "B-1", run.Recommendations[0].ProductID)
	assert.Equal(t, []string{string(recommend.SourceBaseline), "db_suitability"}, run.Explanation.DataSourcesUsed)
	assert.Equal(t, []string{"external product catalog unavailable; used baseline products"}, run.Diagnostics)
}

func TestRecommendDegradesOnComparisonFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	cmp := compare.NewClient(config.CompareConfig{BaseURL: srv.URL})

	svc := New(testConfig(), sureify.NewMock(), nil, cmp)

	run, err := svc.Recommend(context.Background(), "client-1", nil)
	require.NoError(t, err, "a comparison failure never fails the run")
	assert.Nil(t, run.Comparison)
	assert.Contains(t, run.Diagnostics, "comparison enrichment unavailable; run degraded")
	assert.NotEmpty(t, run.Recommendations)
}

func TestRecommendEnrichesWithComparison(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"verdict":"switch"}`))
	}))
	t.Cleanup(srv.Close)
	cmp := compare.NewClient(config.CompareConfig{BaseURL: srv.URL})

	svc := New(testConfig(), sureify.NewMock(), nil, cmp)

	run, err := svc.Recommend(context.Background(), "client-1", nil)
	require.NoError(t, err)
	require.NotNil(t, run.Comparison)
	assert.Equal(t, "switch", run.Comparison["verdict"])
	assert.Empty(t, run.Diagnostics)
}

func TestRecommendRejectsMalformedChanges(t *testing.T) {
	svc := New(testConfig(), sureify.NewMock(), nil, nil)

	_, err := svc.Recommend(context.Background(), "client-1", []byte(`{"suitability":`))
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrInvalidInput))
}

func TestRecommendPropagatesSuitabilityFailure(t *testing.T) {
	src := &stubSource{Client: sureify.NewMock(), suitabilityErr: eris.New("feed down")}
	svc := New(testConfig(), src, nil, nil)

	_, err := svc.Recommend(context.Background(), "client-1", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suitability")
}
