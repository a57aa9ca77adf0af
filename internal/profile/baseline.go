package profile

import (
	"fmt"
	"strconv"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// BaselineFromRow converts a loosely-shaped suitability row (snake_case keys,
// as the external feed and the suitability table emit them) into a typed
// baseline profile. Unknown keys are ignored; a nil row yields nil.
func BaselineFromRow(row map[string]any) *model.BaselineProfile {
	if row == nil {
		return nil
	}
	return &model.BaselineProfile{
		ClientAccountNumber: rowString(row, "client_account_number"),
		RiskTolerance:       rowString(row, "risk_tolerance"),
		PrimaryObjective:    rowString(row, "primary_objective"),
		SecondaryObjective:  rowString(row, "secondary_objective"),
		LiquidityImportance: rowString(row, "liquidity_importance"),
		InvestmentHorizon:   rowString(row, "investment_horizon"),
		WithdrawalHorizon:   rowString(row, "withdrawal_horizon"),
		CurrentIncomeNeed:   rowString(row, "current_income_need"),
		Age:                 rowInt(row, "age"),
		State:               rowString(row, "state"),
		AnnualIncomeRange:   rowString(row, "annual_income_range"),
		NetWorthRange:       rowString(row, "net_worth_range"),
		LiquidNetWorthRange: rowString(row, "liquid_net_worth_range"),
		TaxBracket:          rowString(row, "tax_bracket"),
	}
}

func rowString(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func rowInt(row map[string]any, key string) *int {
	switch v := row[key].(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		n := v
		return &n
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}
