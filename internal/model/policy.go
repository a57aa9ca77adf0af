// Package model defines the canonical record shapes shared across the
// decision engines: normalized policies, decision flags, client profiles,
// product catalog entries, and the dashboard-facing alert view.
package model

// Policy is the strict internal representation of one externally-sourced
// insurance policy. All key aliasing across source vendors happens in the
// source package; the rule engines only ever see this shape.
type Policy struct {
	ID            string `json:"ID,omitempty"`
	PolicyNumber  string `json:"policyNumber,omitempty"`
	Carrier       string `json:"carrier,omitempty"`
	Status        string `json:"status,omitempty"`
	EffectiveDate string `json:"effectiveDate,omitempty"`

	ProductName string `json:"productName,omitempty"`
	ProductCode string `json:"productCode,omitempty"`
	ProductType string `json:"productType,omitempty"`

	// Renewal-relevant date fields are kept raw (string or epoch-millisecond
	// numeric) exactly as the source provided them; the flag engine owns
	// parsing and format tolerance.
	RenewalDate        any `json:"renewalDate,omitempty"`
	MaturityDate       any `json:"maturityDate,omitempty"`
	NextPremiumDueDate any `json:"nextPremiumDueDate,omitempty"`
	CoveredUntilDate   any `json:"coveredUntilDate,omitempty"`

	// Monetary fields; nil means the source did not provide the field.
	CurrentValue *float64 `json:"currentValue,omitempty"`
	AnnuityValue *float64 `json:"annuityValue,omitempty"`
	CashValue    *float64 `json:"cashValue,omitempty"`
	FaceAmount   *float64 `json:"faceAmount,omitempty"`
	DeathBenefit *float64 `json:"deathBenefit,omitempty"`

	CurrentRate       string `json:"currentRate,omitempty"`
	RenewalRate       string `json:"renewalRate,omitempty"`
	GuaranteedMinRate string `json:"guaranteedMinRate,omitempty"`
	IsMinRate         bool   `json:"isMinRate,omitempty"`

	HasPayoutSchedule bool `json:"hasPayoutSchedule,omitempty"`

	// HasRolesKey records whether the source record explicitly carried a
	// roles key. Sources that never populate roles must not trigger the
	// missing-roles data quality issue.
	HasRolesKey  bool `json:"-"`
	RoleCount    int  `json:"roleCount,omitempty"`
	ContactCount int  `json:"contactCount,omitempty"`

	SuitabilityStatus string `json:"suitabilityStatus,omitempty"`
	EligibilityStatus string `json:"eligibilityStatus,omitempty"`
	IsMinRateRenewal  bool   `json:"isMinRateRenewal,omitempty"`
}

// Key returns the identifier used to correlate a policy across outputs:
// the source ID when present, else the policy number.
func (p Policy) Key() string {
	if p.ID != "" {
		return p.ID
	}
	return p.PolicyNumber
}

// RenewalInfo holds the derived renewal/maturity facts for a policy.
// DaysUntilRenewal is nil when the date is unknown, unparsable, or past.
type RenewalInfo struct {
	RenewalDate      string `json:"renewal_date,omitempty"`
	DaysUntilRenewal *int   `json:"days_until_renewal,omitempty"`
}

// Severity classifies how many required fields are missing from a policy.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// PolicyFlags is the full decision outcome for one policy.
type PolicyFlags struct {
	RenewalDate              string   `json:"renewal_date,omitempty"`
	DaysUntilRenewal         *int     `json:"days_until_renewal,omitempty"`
	ReplacementOpportunity   bool     `json:"replacement_opportunity"`
	ReplacementReason        string   `json:"replacement_reason,omitempty"`
	DataQualityIssues        []string `json:"data_quality_issues,omitempty"`
	DataQualitySeverity      Severity `json:"data_quality_severity,omitempty"`
	IncomeActivationEligible bool     `json:"income_activation_eligible"`
	IncomeActivationReason   string   `json:"income_activation_reason,omitempty"`
	ScheduleMeeting          bool     `json:"schedule_meeting"`
	ScheduleMeetingReason    string   `json:"schedule_meeting_reason,omitempty"`
}

// Notification is a surfaced message tied to a policy.
type Notification struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	PolicyID string `json:"policy_id,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// Notification severities.
const (
	NotifSeverityInfo    = "info"
	NotifSeverityWarning = "warning"
	NotifSeverityUrgent  = "urgent"
)

// PolicyResult pairs a policy with its computed flags and notifications.
type PolicyResult struct {
	Policy        Policy         `json:"policy"`
	Flags         PolicyFlags    `json:"flags"`
	Notifications []Notification `json:"notifications,omitempty"`
}

// BookOfBusiness is the evaluated policy batch for one customer or advisor.
type BookOfBusiness struct {
	CustomerIdentifier string         `json:"customer_identifier"`
	Policies           []PolicyResult `json:"policies"`
}
