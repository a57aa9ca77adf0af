package model

// BaselineProfile is the stored suitability/financial profile row for a
// client, as the persistence collaborator hands it to the merge engine.
// Empty strings mean the column is unset.
type BaselineProfile struct {
	ClientAccountNumber string `json:"client_account_number,omitempty"`
	RiskTolerance       string `json:"risk_tolerance,omitempty"`
	PrimaryObjective    string `json:"primary_objective,omitempty"`
	SecondaryObjective  string `json:"secondary_objective,omitempty"`
	LiquidityImportance string `json:"liquidity_importance,omitempty"`
	InvestmentHorizon   string `json:"investment_horizon,omitempty"`
	WithdrawalHorizon   string `json:"withdrawal_horizon,omitempty"`
	CurrentIncomeNeed   string `json:"current_income_need,omitempty"`
	Age                 *int   `json:"age,omitempty"`
	State               string `json:"state,omitempty"`
	AnnualIncomeRange   string `json:"annual_income_range,omitempty"`
	NetWorthRange       string `json:"net_worth_range,omitempty"`
	LiquidNetWorthRange string `json:"liquid_net_worth_range,omitempty"`
	TaxBracket          string `json:"tax_bracket,omitempty"`
}

// SuitabilityChanges carries edits to the suitability assessment form.
// Nil fields were not touched by the caller.
type SuitabilityChanges struct {
	ClientObjectives   *string  `json:"clientObjectives,omitempty"`
	RiskTolerance      *string  `json:"riskTolerance,omitempty"`
	TimeHorizon        *string  `json:"timeHorizon,omitempty"`
	LiquidityNeeds     *string  `json:"liquidityNeeds,omitempty"`
	TaxConsiderations  *string  `json:"taxConsiderations,omitempty"`
	GuaranteedIncome   *string  `json:"guaranteedIncome,omitempty"`
	RateExpectations   *string  `json:"rateExpectations,omitempty"`
	SurrenderTimeline  *string  `json:"surrenderTimeline,omitempty"`
	LivingBenefits     []string `json:"livingBenefits,omitempty"`
	AdvisorEligibility *string  `json:"advisorEligibility,omitempty"`
	Score              *int     `json:"score,omitempty"`
	IsPrefilled        *bool    `json:"isPrefilled,omitempty"`
}

// ClientGoalsChanges carries edits to the client's goals section.
type ClientGoalsChanges struct {
	FinancialObjectives     *string `json:"financialObjectives,omitempty"`
	DistributionPlan        *string `json:"distributionPlan,omitempty"`
	OwnedAssets             *string `json:"ownedAssets,omitempty"`
	TimeToFirstDistribution *string `json:"timeToFirstDistribution,omitempty"`
	ExpectedHoldingPeriod   *string `json:"expectedHoldingPeriod,omitempty"`
	SourceOfFunds           *string `json:"sourceOfFunds,omitempty"`
	EmploymentStatus        *string `json:"employmentStatus,omitempty"`
}

// ClientProfileChanges carries edits to the client's financial profile.
type ClientProfileChanges struct {
	ResidesInNursingHome          *string `json:"residesInNursingHome,omitempty"`
	HasLongTermCareInsurance      *string `json:"hasLongTermCareInsurance,omitempty"`
	HasMedicareSupplemental       *string `json:"hasMedicareSupplemental,omitempty"`
	GrossIncome                   *string `json:"grossIncome,omitempty"`
	DisposableIncome              *string `json:"disposableIncome,omitempty"`
	TaxBracket                    *string `json:"taxBracket,omitempty"`
	HouseholdLiquidAssets         *string `json:"householdLiquidAssets,omitempty"`
	MonthlyLivingExpenses         *string `json:"monthlyLivingExpenses,omitempty"`
	TotalAnnuityValue             *string `json:"totalAnnuityValue,omitempty"`
	HouseholdNetWorth             *string `json:"householdNetWorth,omitempty"`
	AnticipateExpenseIncrease     *string `json:"anticipateExpenseIncrease,omitempty"`
	AnticipateIncomeDecrease      *string `json:"anticipateIncomeDecrease,omitempty"`
	AnticipateLiquidAssetDecrease *string `json:"anticipateLiquidAssetDecrease,omitempty"`
	ApplyToMeansTestedBenefits    *string `json:"applyToMeansTestedBenefits,omitempty"`
}

// ChangesInput is the incoming partial profile delta: three optional named
// sections. Only changed fields are included; the merge engine overlays them
// on the baseline profile.
type ChangesInput struct {
	Suitability   *SuitabilityChanges   `json:"suitability,omitempty"`
	ClientGoals   *ClientGoalsChanges   `json:"clientGoals,omitempty"`
	ClientProfile *ClientProfileChanges `json:"clientProfile,omitempty"`
}

// MergedSuitability is the fused suitability section. The delta-written
// keys (time_horizon, liquidity_needs, client_objectives) are deliberately
// distinct from their baseline counterparts (investment_horizon,
// liquidity_importance); downstream readers consult both.
type MergedSuitability struct {
	RiskTolerance       string `json:"risk_tolerance,omitempty"`
	PrimaryObjective    string `json:"primary_objective,omitempty"`
	SecondaryObjective  string `json:"secondary_objective,omitempty"`
	LiquidityImportance string `json:"liquidity_importance,omitempty"`
	InvestmentHorizon   string `json:"investment_horizon,omitempty"`
	WithdrawalHorizon   string `json:"withdrawal_horizon,omitempty"`
	CurrentIncomeNeed   string `json:"current_income_need,omitempty"`
	Age                 *int   `json:"age,omitempty"`
	State               string `json:"state,omitempty"`
	TimeHorizon         string `json:"time_horizon,omitempty"`
	LiquidityNeeds      string `json:"liquidity_needs,omitempty"`
	ClientObjectives    string `json:"client_objectives,omitempty"`
}

// MergedGoals is the fused goals-and-financial-profile section.
type MergedGoals struct {
	AnnualIncomeRange     string `json:"annual_income_range,omitempty"`
	NetWorthRange         string `json:"net_worth_range,omitempty"`
	LiquidNetWorthRange   string `json:"liquid_net_worth_range,omitempty"`
	TaxBracket            string `json:"tax_bracket,omitempty"`
	FinancialObjectives   string `json:"financial_objectives,omitempty"`
	DistributionPlan      string `json:"distribution_plan,omitempty"`
	ExpectedHoldingPeriod string `json:"expected_holding_period,omitempty"`
	GrossIncome           string `json:"gross_income,omitempty"`
	HouseholdNetWorth     string `json:"household_net_worth,omitempty"`
	HouseholdLiquidAssets string `json:"household_liquid_assets,omitempty"`
}

// MergedProfile is the fused baseline-plus-delta client view that drives
// recommendations. Recomputed on every call, never stored.
type MergedProfile struct {
	Suitability     MergedSuitability `json:"suitability"`
	GoalsAndProfile MergedGoals       `json:"goals_and_profile"`
}

// IsZero reports whether no suitability or goals data is present at all.
func (m MergedProfile) IsZero() bool {
	return m.Suitability == (MergedSuitability{}) && m.GoalsAndProfile == (MergedGoals{})
}
