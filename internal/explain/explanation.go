// Package explain derives the structured, human-readable rationale for a
// recommendation run. Every statement it produces is computed from the same
// inputs as the recommendations themselves, so the text can never disagree
// with the flags and rankings it describes.
package explain

import (
	"fmt"
	"strings"

	"github.com/meridian-advisory/renewal-intel/internal/model"
	"github.com/meridian-advisory/renewal-intel/internal/profile"
	"github.com/meridian-advisory/renewal-intel/internal/recommend"
)

// Build assembles the run explanation: which data sources fed the run,
// which profile criteria contextualized it, and a one-sentence summary.
func Build(kind recommend.SourceKind, mp model.MergedProfile, changes model.ChangesInput, recommendationCount int) model.Explanation {
	dataSources := []string{string(kind)}
	if !mp.IsZero() {
		dataSources = append(dataSources, "db_suitability")
	}

	criteria := choiceCriteria(mp)
	sections := profile.Sections(changes)

	catalogLabel := "product catalog"
	if kind == recommend.SourceExternal {
		catalogLabel = "available product catalog"
	}

	sectionsLabel := strings.Join(sections, ", ")
	if sectionsLabel == "" {
		sectionsLabel = "none"
	}

	summary := fmt.Sprintf(
		"Opportunity Generator produced %d opportunities presented from the %s, contextualized using: %s. Input sections received: %s.",
		recommendationCount, catalogLabel, strings.Join(criteria, ", "), sectionsLabel,
	)

	return model.Explanation{
		Summary:               summary,
		DataSourcesUsed:       dataSources,
		ChoiceCriteria:        criteria,
		InputSectionsReceived: sections,
	}
}

// choiceCriteria lists the profile dimensions that carried data, tested in
// fixed order so the explanation is deterministic.
func choiceCriteria(mp model.MergedProfile) []string {
	suit := mp.Suitability
	goals := mp.GoalsAndProfile

	var criteria []string

	if strings.TrimSpace(suit.RiskTolerance) != "" {
		criteria = append(criteria, "risk tolerance")
	}
	if strings.TrimSpace(suit.TimeHorizon) != "" || strings.TrimSpace(suit.InvestmentHorizon) != "" {
		criteria = append(criteria, "time horizon")
	}
	if strings.TrimSpace(suit.LiquidityNeeds) != "" || strings.TrimSpace(suit.LiquidityImportance) != "" {
		criteria = append(criteria, "liquidity needs")
	}
	if strings.TrimSpace(suit.ClientObjectives) != "" || strings.TrimSpace(goals.FinancialObjectives) != "" {
		criteria = append(criteria, "financial objectives")
	}
	if strings.TrimSpace(goals.ExpectedHoldingPeriod) != "" {
		criteria = append(criteria, "expected holding period")
	}

	if len(criteria) == 0 {
		criteria = append(criteria, "product catalog match")
	}
	return criteria
}
