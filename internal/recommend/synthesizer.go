package recommend

import (
	"go.uber.org/zap"

	"github.com/meridian-advisory/renewal-intel/internal/config"
	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// Synthesizer ranks a selected catalog against a merged client profile.
type Synthesizer struct {
	cfg config.EngineConfig
}

// NewSynthesizer creates a Synthesizer with the given engine config.
func NewSynthesizer(cfg config.EngineConfig) *Synthesizer {
	return &Synthesizer{cfg: cfg}
}

// Synthesize produces the ranked recommendation list for one run. The match
// reason is derived once from the merged profile and shared by every entry.
func (s *Synthesizer) Synthesize(mp model.MergedProfile, catalog Catalog) []model.Recommendation {
	reason := BuildMatchReason(mp)
	recs := Rank(catalog.Entries, reason, s.cfg.MaxRecommendations)

	zap.L().Info("recommend: run synthesized",
		zap.String("source", string(catalog.Kind)),
		zap.Int("catalog_entries", len(catalog.Entries)),
		zap.Int("recommendations", len(recs)),
	)

	return recs
}
