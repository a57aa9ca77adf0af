package model

// AlertType identifies the kind of alert surfaced on the dashboard.
type AlertType string

const (
	AlertReplacementOpportunity AlertType = "replacement_opportunity"
	AlertMissingInfo            AlertType = "missing_info"
	AlertIncomePlanning         AlertType = "income_planning"
	AlertSuitabilityReview      AlertType = "suitability_review"
)

// Priority is the dashboard triage level of an alert.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status is the alert lifecycle state. The lifecycle itself (snoozing,
// dismissal) is owned by the persistence layer; the mapper always emits
// pending.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSnoozed   Status = "snoozed"
	StatusDismissed Status = "dismissed"
)

// Alert is the normalized per-policy decision record for the dashboard.
// AlertTypes is never empty and its first element always equals AlertType.
type Alert struct {
	ID               string      `json:"id"`
	PolicyID         string      `json:"policyId"`
	ClientName       string      `json:"clientName"`
	Carrier          string      `json:"carrier"`
	RenewalDate      string      `json:"renewalDate"`
	DaysUntilRenewal int         `json:"daysUntilRenewal"`
	CurrentRate      string      `json:"currentRate"`
	RenewalRate      string      `json:"renewalRate"`
	CurrentValue     string      `json:"currentValue"`
	IsMinRate        bool        `json:"isMinRate"`
	Priority         Priority    `json:"priority"`
	HasDataException bool        `json:"hasDataException"`
	Status           Status      `json:"status"`
	AlertType        AlertType   `json:"alertType"`
	AlertDescription string      `json:"alertDescription"`
	MissingFields    []string    `json:"missingFields,omitempty"`
	AlertTypes       []AlertType `json:"alertTypes"`
}

// DashboardStats aggregates an alert batch for the dashboard header.
type DashboardStats struct {
	Total      int     `json:"total"`
	High       int     `json:"high"`
	Urgent     int     `json:"urgent"`
	TotalValue float64 `json:"totalValue"`
}
