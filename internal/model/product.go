package model

// ProductCatalogEntry is one sellable product in canonical shape. Both
// catalog source variants (external feed and baseline table) normalize
// into this before ranking.
type ProductCatalogEntry struct {
	ProductID         string `json:"product_id"`
	Name              string `json:"name"`
	Carrier           string `json:"carrier"`
	Rate              string `json:"rate"`
	Term              string `json:"term,omitempty"`
	SurrenderPeriod   string `json:"surrenderPeriod,omitempty"`
	FreeWithdrawal    string `json:"freeWithdrawal,omitempty"`
	GuaranteedMinRate string `json:"guaranteedMinRate,omitempty"`
	RiskProfile       string `json:"risk_profile,omitempty"`
	SuitableFor       string `json:"suitable_for,omitempty"`
	KeyBenefits       string `json:"key_benefits,omitempty"`
}

// BaselineProduct is the baseline catalog row shape from the products table.
type BaselineProduct struct {
	ProductID             string   `json:"product_id"`
	ProductName           string   `json:"product_name"`
	Carrier               string   `json:"carrier"`
	CurrentFixedRate      *float64 `json:"current_fixed_rate,omitempty"`
	GuaranteedMinimumRate *float64 `json:"guaranteed_minimum_rate,omitempty"`
	CDSCYears             *int     `json:"cdsc_years,omitempty"`
	FreeWithdrawalPercent *float64 `json:"free_withdrawal_percent,omitempty"`
	RiskProfile           string   `json:"risk_profile,omitempty"`
	SuitableFor           string   `json:"suitable_for,omitempty"`
	KeyBenefits           string   `json:"key_benefits,omitempty"`
}

// Recommendation is a ranked catalog entry plus the rationale applied to it.
type Recommendation struct {
	ProductCatalogEntry
	MatchReason string `json:"match_reason,omitempty"`
}

// Explanation is the structured rationale for one recommendation run.
type Explanation struct {
	Summary               string   `json:"summary"`
	DataSourcesUsed       []string `json:"data_sources_used"`
	ChoiceCriteria        []string `json:"choice_criteria"`
	InputSectionsReceived []string `json:"input_sections_received"`
}

// ReasonsToSwitch lists pros and cons of staying with the current product
// versus switching to a recommended one.
type ReasonsToSwitch struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

// RecommendationRun is the complete output of one recommendation pass.
type RecommendationRun struct {
	ClientID             string           `json:"client_id"`
	MergedProfileSummary MergedProfile    `json:"merged_profile_summary"`
	Recommendations      []Recommendation `json:"recommendations"`
	Explanation          Explanation      `json:"explanation"`
	ReasonsToSwitch      ReasonsToSwitch  `json:"reasons_to_switch"`

	// Comparison holds the optional secondary enrichment result. Absent when
	// the enrichment call was skipped or failed; a failure never fails the run.
	Comparison map[string]any `json:"comparison_result,omitempty"`

	// Diagnostics retains degraded-enrichment notes for audit.
	Diagnostics []string `json:"diagnostics,omitempty"`
}
