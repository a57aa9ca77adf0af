// Package profile merges a stored baseline client profile with an incoming
// partial delta into the fused view that drives recommendations.
package profile

import (
	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// Merge overlays the delta on the baseline. Every baseline column seeds the
// merged output; every present (non-nil) delta field overwrites its merged
// key; absent delta fields keep the baseline value. With no baseline, only
// delta-provided fields are populated.
//
// The field mapping is deliberately asymmetric in places: the delta's
// timeHorizon writes time_horizon while the baseline seeds
// investment_horizon, and the delta's liquidityNeeds writes liquidity_needs
// while the baseline seeds liquidity_importance. Downstream readers consult
// both keys. Do not collapse the pairs without product confirmation.
func Merge(baseline *model.BaselineProfile, changes model.ChangesInput) model.MergedProfile {
	return model.MergedProfile{
		Suitability:     mergeSuitability(baseline, changes),
		GoalsAndProfile: mergeGoalsAndProfile(baseline, changes),
	}
}

func mergeSuitability(baseline *model.BaselineProfile, changes model.ChangesInput) model.MergedSuitability {
	var out model.MergedSuitability

	if baseline != nil {
		out.RiskTolerance = baseline.RiskTolerance
		out.PrimaryObjective = baseline.PrimaryObjective
		out.SecondaryObjective = baseline.SecondaryObjective
		out.LiquidityImportance = baseline.LiquidityImportance
		out.InvestmentHorizon = baseline.InvestmentHorizon
		out.WithdrawalHorizon = baseline.WithdrawalHorizon
		out.CurrentIncomeNeed = baseline.CurrentIncomeNeed
		out.Age = baseline.Age
		out.State = baseline.State
	}

	if s := changes.Suitability; s != nil {
		if s.RiskTolerance != nil {
			out.RiskTolerance = *s.RiskTolerance
		}
		if s.TimeHorizon != nil {
			out.TimeHorizon = *s.TimeHorizon
		}
		if s.LiquidityNeeds != nil {
			out.LiquidityNeeds = *s.LiquidityNeeds
		}
		if s.ClientObjectives != nil {
			out.ClientObjectives = *s.ClientObjectives
		}
	}

	return out
}

func mergeGoalsAndProfile(baseline *model.BaselineProfile, changes model.ChangesInput) model.MergedGoals {
	var out model.MergedGoals

	if baseline != nil {
		out.AnnualIncomeRange = baseline.AnnualIncomeRange
		out.NetWorthRange = baseline.NetWorthRange
		out.LiquidNetWorthRange = baseline.LiquidNetWorthRange
		out.TaxBracket = baseline.TaxBracket
	}

	if g := changes.ClientGoals; g != nil {
		if g.FinancialObjectives != nil {
			out.FinancialObjectives = *g.FinancialObjectives
		}
		if g.DistributionPlan != nil {
			out.DistributionPlan = *g.DistributionPlan
		}
		if g.ExpectedHoldingPeriod != nil {
			out.ExpectedHoldingPeriod = *g.ExpectedHoldingPeriod
		}
	}

	if p := changes.ClientProfile; p != nil {
		if p.GrossIncome != nil {
			out.GrossIncome = *p.GrossIncome
		}
		if p.HouseholdNetWorth != nil {
			out.HouseholdNetWorth = *p.HouseholdNetWorth
		}
		if p.HouseholdLiquidAssets != nil {
			out.HouseholdLiquidAssets = *p.HouseholdLiquidAssets
		}
		if p.TaxBracket != nil {
			out.TaxBracket = *p.TaxBracket
		}
	}

	return out
}
