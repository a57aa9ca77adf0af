// Package service orchestrates the decision pipeline: fetch, normalize,
// evaluate, map to alerts, and synthesize recommendations. All business
// judgment lives in the engine packages; this layer only sequences them,
// fans out across policies, and decides which failures degrade a run
// instead of failing it.
package service

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meridian-advisory/renewal-intel/internal/alerts"
	"github.com/meridian-advisory/renewal-intel/internal/compare"
	"github.com/meridian-advisory/renewal-intel/internal/config"
	"github.com/meridian-advisory/renewal-intel/internal/explain"
	"github.com/meridian-advisory/renewal-intel/internal/flagengine"
	"github.com/meridian-advisory/renewal-intel/internal/model"
	"github.com/meridian-advisory/renewal-intel/internal/profile"
	"github.com/meridian-advisory/renewal-intel/internal/recommend"
	"github.com/meridian-advisory/renewal-intel/internal/source"
	"github.com/meridian-advisory/renewal-intel/internal/store"
	"github.com/meridian-advisory/renewal-intel/internal/sureify"
)

// Service wires the data sources and engines together. The store and the
// comparison client are optional: without a store, runs are ephemeral;
// without a comparison client, runs skip enrichment.
type Service struct {
	cfg    config.Config
	source sureify.Client
	store  store.Store
	cmp    compare.Client

	engine *flagengine.Engine
	mapper *alerts.Mapper
	synth  *recommend.Synthesizer
}

// New creates a Service. src is required; st and cmp may be nil.
func New(cfg config.Config, src sureify.Client, st store.Store, cmp compare.Client) *Service {
	return &Service{
		cfg:    cfg,
		source: src,
		store:  st,
		cmp:    cmp,
		engine: flagengine.New(cfg.Engine),
		mapper: alerts.NewMapper(cfg.Engine),
		synth:  recommend.NewSynthesizer(cfg.Engine),
	}
}

// Evaluation is the full result of one book-of-business pass.
type Evaluation struct {
	Book   model.BookOfBusiness `json:"book"`
	Alerts []model.Alert        `json:"alerts"`
	Stats  model.DashboardStats `json:"stats"`
}

// EvaluateBook fetches the customer's policies from the external feed and
// evaluates them.
func (s *Service) EvaluateBook(ctx context.Context, customer string) (*Evaluation, error) {
	raw, err := s.source.GetBookOfBusiness(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "service: fetch book of business for %s", customer)
	}
	return s.EvaluateRecords(ctx, customer, raw)
}

// EvaluateRecords normalizes and evaluates raw policy records. Evaluation
// fans out across policies; results keep input order. If a store is
// configured, the alert batch and stats are persisted.
func (s *Service) EvaluateRecords(ctx context.Context, customer string, raw []map[string]any) (*Evaluation, error) {
	policies, err := source.NormalizeBatch(raw)
	if err != nil {
		return nil, err
	}

	results := make([]model.PolicyResult, len(policies))
	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.Engine.MaxConcurrentPolicies
	if limit <= 0 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, p := range policies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return eris.Wrap(err, "service: evaluation cancelled")
			}
			flags := s.engine.Evaluate(p)
			results[i] = model.PolicyResult{
				Policy:        p,
				Flags:         flags,
				Notifications: s.engine.Notifications(p, flags),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	book := model.BookOfBusiness{CustomerIdentifier: customer, Policies: results}
	alertList, stats := s.mapper.Map(book)

	if s.store != nil {
		if err := s.store.SaveEvaluation(ctx, customer, alertList, stats); err != nil {
			return nil, eris.Wrapf(err, "service: persist evaluation for %s", customer)
		}
	}

	return &Evaluation{Book: book, Alerts: alertList, Stats: stats}, nil
}

// Recommend produces a full recommendation run for one client: merge the
// profile delta onto the baseline, select and rank a catalog, explain the
// result, and optionally enrich it with the comparison service.
//
// Two sources degrade instead of failing: an unreachable external catalog
// falls back to the baseline products, and a failed comparison call leaves
// the run without a Comparison field. Both leave a diagnostic on the run.
func (s *Service) Recommend(ctx context.Context, clientID string, changesJSON []byte) (*model.RecommendationRun, error) {
	changes, err := profile.DecodeChanges(changesJSON)
	if err != nil {
		return nil, err
	}

	baseline, err := s.baselineProfile(ctx)
	if err != nil {
		return nil, err
	}
	merged := profile.Merge(baseline, changes)

	var diagnostics []string

	external, err := s.source.GetProductOptions(ctx)
	if err != nil {
		zap.L().Warn("service: external catalog unavailable, falling back to baseline products",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
		diagnostics = append(diagnostics, "external product catalog unavailable; used baseline products")
		external = nil
	}

	var baselineProducts []model.BaselineProduct
	if s.store != nil {
		baselineProducts, err = s.store.ListBaselineProducts(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "service: load baseline products")
		}
	}

	cat := recommend.SelectCatalog(external, baselineProducts)
	recs := s.synth.Synthesize(merged, cat)

	run := model.RecommendationRun{
		ClientID:             clientID,
		MergedProfileSummary: merged,
		Recommendations:      recs,
		Explanation:          explain.Build(cat.Kind, merged, changes, len(recs)),
		ReasonsToSwitch:      explain.BuildReasonsToSwitch(recs),
		Diagnostics:          diagnostics,
	}

	if s.cmp != nil {
		comparison, err := s.cmp.Compare(ctx, merged, recs)
		if err != nil {
			zap.L().Warn("service: comparison enrichment failed, run degraded",
				zap.String("client_id", clientID),
				zap.Error(err),
			)
			run.Diagnostics = append(run.Diagnostics, "comparison enrichment unavailable; run degraded")
		} else {
			run.Comparison = comparison
		}
	}

	if s.store != nil {
		if _, err := s.store.SaveRecommendationRun(ctx, run); err != nil {
			return nil, eris.Wrapf(err, "service: persist run for %s", clientID)
		}
	}

	return &run, nil
}

// baselineProfile loads the client's stored suitability row. No row is not
// an error; the merge engine treats a nil baseline as empty.
func (s *Service) baselineProfile(ctx context.Context) (*model.BaselineProfile, error) {
	rows, err := s.source.GetSuitabilityData(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "service: fetch suitability data")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return profile.BaselineFromRow(rows[0]), nil
}
