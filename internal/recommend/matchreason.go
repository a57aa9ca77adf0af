package recommend

import (
	"fmt"
	"strings"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// objectivesPreviewLen caps how much of the client objectives text is quoted
// in the match reason.
const objectivesPreviewLen = 80

// BuildMatchReason derives the human-readable rationale from the merged
// profile. Criteria are tested in fixed priority order: risk tolerance,
// time horizon, liquidity, objectives, holding period.
//
// The reason is built once per run and applied identically to every
// recommendation in that run; it is not product-differentiated.
// TODO: revisit per-product differentiation once product defines how a
// product's risk profile should weigh against the client's.
func BuildMatchReason(mp model.MergedProfile) string {
	suit := mp.Suitability
	goals := mp.GoalsAndProfile

	var reasons []string

	if risk := strings.TrimSpace(suit.RiskTolerance); risk != "" {
		reasons = append(reasons, "risk tolerance: "+risk)
	}

	th := strings.TrimSpace(suit.TimeHorizon)
	if th == "" {
		th = strings.TrimSpace(suit.InvestmentHorizon)
	}
	if th != "" {
		reasons = append(reasons, "time horizon: "+th)
	}

	liq := strings.TrimSpace(suit.LiquidityNeeds)
	if liq == "" {
		liq = strings.TrimSpace(suit.LiquidityImportance)
	}
	if liq != "" {
		reasons = append(reasons, "liquidity: "+liq)
	}

	obj := strings.TrimSpace(suit.ClientObjectives)
	if obj == "" {
		obj = strings.TrimSpace(goals.FinancialObjectives)
	}
	if obj != "" {
		if len(obj) > objectivesPreviewLen {
			obj = obj[:objectivesPreviewLen] + "..."
		}
		reasons = append(reasons, "objectives: "+obj)
	}

	if hold := strings.TrimSpace(goals.ExpectedHoldingPeriod); hold != "" {
		reasons = append(reasons, "holding period: "+hold)
	}

	if len(reasons) == 0 {
		return "Recommended from the product catalog based on profile."
	}
	return fmt.Sprintf("Contextualized from your profile: %s", strings.Join(reasons, "; "))
}
