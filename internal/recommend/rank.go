package recommend

import (
	"sort"
	"strconv"
	"strings"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// Rank orders catalog entries descending by numeric rate and truncates to
// max. The sort is stable: equal-rate entries keep catalog input order, and
// entries with a missing or non-numeric rate sort as zero (lowest).
func Rank(entries []model.ProductCatalogEntry, matchReason string, max int) []model.Recommendation {
	recs := make([]model.Recommendation, 0, len(entries))
	for _, entry := range entries {
		recs = append(recs, model.Recommendation{
			ProductCatalogEntry: entry,
			MatchReason:         matchReason,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return RateValue(recs[i].Rate) > RateValue(recs[j].Rate)
	})

	if max > 0 && len(recs) > max {
		recs = recs[:max]
	}
	return recs
}

// RateValue parses a display rate ("4.25%") into its numeric value.
// Missing or non-numeric rates are worth zero for ranking purposes.
func RateValue(rate string) float64 {
	s := strings.TrimSpace(strings.ReplaceAll(rate, "%", ""))
	if s == "" || s == "N/A" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
