package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/renewal-intel/internal/flagengine"
	"github.com/meridian-advisory/renewal-intel/internal/model"
)

func testMapper() *Mapper {
	return NewMapper(flagengine.DefaultEngineConfig())
}

func ptrInt(n int) *int             { return &n }
func ptrFloat64(f float64) *float64 { return &f }

func mapOne(t *testing.T, pr model.PolicyResult) model.Alert {
	t.Helper()
	alerts, _ := testMapper().Map(model.BookOfBusiness{
		CustomerIdentifier: "advisor-1",
		Policies:           []model.PolicyResult{pr},
	})
	require.Len(t, alerts, 1)
	return alerts[0]
}

func TestMapIncomePlanningOnly(t *testing.T) {
	alert := mapOne(t, model.PolicyResult{
		Policy: model.Policy{ID: "POL-9", Carrier: "Harbor Mutual"},
		Flags: model.PolicyFlags{
			IncomeActivationEligible: true,
			IncomeActivationReason:   "Annuity in accumulation phase; eligible for income activation or RMD",
			ScheduleMeeting:          true,
			ScheduleMeetingReason:    "Income activation eligible",
		},
	})

	assert.Equal(t, model.AlertIncomePlanning, alert.AlertType)
	assert.Equal(t,
		[]model.AlertType{model.AlertIncomePlanning, model.AlertSuitabilityReview},
		alert.AlertTypes)
	assert.Equal(t, model.PriorityLow, alert.Priority)
	assert.Contains(t, alert.AlertDescription, "accumulation phase")
	assert.False(t, alert.HasDataException)
}

func TestMapDefaultAlert(t *testing.T) {
	alert := mapOne(t, model.PolicyResult{
		Policy: model.Policy{ID: "POL-1", Carrier: "Granite Life"},
	})

	assert.Equal(t, model.AlertSuitabilityReview, alert.AlertType)
	assert.Equal(t, []model.AlertType{model.AlertSuitabilityReview}, alert.AlertTypes)
	assert.Equal(t, "Review recommended", alert.AlertDescription)
	assert.Equal(t, model.PriorityLow, alert.Priority)
	assert.Equal(t, model.StatusPending, alert.Status)
}

func TestMapAlertTypeOrder(t *testing.T) {
	alert := mapOne(t, model.PolicyResult{
		Policy: model.Policy{ID: "POL-2"},
		Flags: model.PolicyFlags{
			ReplacementOpportunity:   true,
			ReplacementReason:        "Fixed/term product may have replacement options for better value",
			DataQualityIssues:        []string{"Missing carrier"},
			DataQualitySeverity:      model.SeverityMedium,
			IncomeActivationEligible: true,
			ScheduleMeeting:          true,
		},
	})

	assert.Equal(t, []model.AlertType{
		model.AlertReplacementOpportunity,
		model.AlertMissingInfo,
		model.AlertIncomePlanning,
		model.AlertSuitabilityReview,
	}, alert.AlertTypes)
	assert.Equal(t, model.AlertReplacementOpportunity, alert.AlertType)
	assert.True(t, alert.HasDataException)
	assert.Equal(t, []string{"Missing carrier"}, alert.MissingFields)
}

func TestMapDataQualityDescriptionTruncated(t *testing.T) {
	issues := []string{"Missing policy number", "Missing carrier", "Missing effective date", "Missing roles/contacts"}
	alert := mapOne(t, model.PolicyResult{
		Policy: model.Policy{ID: "POL-3"},
		Flags: model.PolicyFlags{
			DataQualityIssues:   issues,
			DataQualitySeverity: model.SeverityHigh,
		},
	})

	assert.Contains(t, alert.AlertDescription,
		"Data quality: Missing policy number; Missing carrier; Missing effective date")
	assert.NotContains(t, alert.AlertDescription, "Missing roles/contacts",
		"only the first three issues are spelled out")
	// The full list still rides on the alert.
	assert.Equal(t, issues, alert.MissingFields)
}

func TestMapPriorityRules(t *testing.T) {
	tests := []struct {
		name   string
		flags  model.PolicyFlags
		notifs []model.Notification
		want   model.Priority
	}{
		{"high severity", model.PolicyFlags{DataQualitySeverity: model.SeverityHigh}, nil, model.PriorityHigh},
		{"urgent notification", model.PolicyFlags{}, []model.Notification{{Severity: model.NotifSeverityUrgent}}, model.PriorityHigh},
		{"medium severity", model.PolicyFlags{DataQualitySeverity: model.SeverityMedium}, nil, model.PriorityMedium},
		{"replacement only", model.PolicyFlags{ReplacementOpportunity: true}, nil, model.PriorityMedium},
		{"warning notification stays low", model.PolicyFlags{}, []model.Notification{{Severity: model.NotifSeverityWarning}}, model.PriorityLow},
		{"nothing", model.PolicyFlags{}, nil, model.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := mapOne(t, model.PolicyResult{
				Policy:        model.Policy{ID: "P"},
				Flags:         tt.flags,
				Notifications: tt.notifs,
			})
			assert.Equal(t, tt.want, alert.Priority)
		})
	}
}

func TestMapFormatting(t *testing.T) {
	alert := mapOne(t, model.PolicyResult{
		Policy: model.Policy{
			ID:           "POL-5",
			CurrentValue: ptrFloat64(180000),
			CurrentRate:  "4.15",
			RenewalRate:  "1.00%",
		},
		Flags: model.PolicyFlags{DaysUntilRenewal: ptrInt(12)},
	})

	assert.Equal(t, "alert-POL-5-renewal", alert.ID)
	assert.Equal(t, "$180,000", alert.CurrentValue)
	assert.Equal(t, "4.15%", alert.CurrentRate, "bare rates get a percent suffix")
	assert.Equal(t, "1.00%", alert.RenewalRate)
	assert.Equal(t, "12 Days", alert.RenewalDate)
	assert.Equal(t, 12, alert.DaysUntilRenewal)
}

func TestMapFallbacks(t *testing.T) {
	alert := mapOne(t, model.PolicyResult{
		Policy: model.Policy{PolicyNumber: "PN-77"},
	})
	assert.Equal(t, "PN-77", alert.PolicyID, "policy number backs a missing ID")
	assert.Equal(t, "N/A", alert.Carrier)
	assert.Equal(t, "N/A", alert.RenewalDate)
	assert.Equal(t, "N/A", alert.CurrentRate)
	assert.Equal(t, "$0", alert.CurrentValue)

	alert = mapOne(t, model.PolicyResult{Policy: model.Policy{}})
	assert.Equal(t, "policy-0", alert.PolicyID, "fully anonymous records get a positional id")
}

func TestMapFallbackRenewalWindow(t *testing.T) {
	alert := mapOne(t, model.PolicyResult{
		Policy: model.Policy{ID: "POL-6", NextPremiumDueDate: "not-a-date"},
	})
	assert.Equal(t, 30, alert.DaysUntilRenewal,
		"a premium-due date without a derivable day count implies the default window")
	assert.Equal(t, "30 Days", alert.RenewalDate)
}

func TestMapValuePriorityOrder(t *testing.T) {
	alert := mapOne(t, model.PolicyResult{
		Policy: model.Policy{
			ID:           "POL-7",
			AnnuityValue: ptrFloat64(96000),
			FaceAmount:   ptrFloat64(250000),
		},
	})
	assert.Equal(t, "$96,000", alert.CurrentValue, "annuity value outranks face amount")
}

func TestMapStats(t *testing.T) {
	_, stats := testMapper().Map(model.BookOfBusiness{
		CustomerIdentifier: "advisor-1",
		Policies: []model.PolicyResult{
			{
				Policy: model.Policy{ID: "A", CurrentValue: ptrFloat64(180000.5)},
				Flags: model.PolicyFlags{
					DaysUntilRenewal:    ptrInt(12),
					DataQualitySeverity: model.SeverityHigh,
				},
			},
			{
				Policy: model.Policy{ID: "B", FaceAmount: ptrFloat64(250000.25)},
				Flags:  model.PolicyFlags{DaysUntilRenewal: ptrInt(45)},
			},
		},
	})

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.High)
	assert.Equal(t, 1, stats.Urgent, "only the 12-day policy is inside the window")
	assert.Equal(t, 430000.75, stats.TotalValue, "total is rounded to cents")
}

func TestMapEmptyBook(t *testing.T) {
	alerts, stats := testMapper().Map(model.BookOfBusiness{CustomerIdentifier: "advisor-1"})
	assert.Empty(t, alerts)
	assert.Equal(t, model.DashboardStats{}, stats)
}
