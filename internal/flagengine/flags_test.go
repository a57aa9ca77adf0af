package flagengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// testToday is the fixed clock used across the engine tests.
var testToday = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewWithClock(DefaultEngineConfig(), func() time.Time { return testToday })
}

func dateInDays(n int) string {
	return testToday.AddDate(0, 0, n).Format("2006-01-02")
}

// completePolicy returns a policy with no data quality issues and no
// replacement heuristics firing.
func completePolicy() model.Policy {
	return model.Policy{
		ID:            "POL-1",
		PolicyNumber:  "PN-1",
		Carrier:       "Granite Life",
		Status:        "inforce",
		EffectiveDate: "2020-01-01",
		ProductName:   "Secure Growth Annuity",
		ProductCode:   "SGA",
		HasRolesKey:   true,
		RoleCount:     1,
	}
}

func TestRenewalBoundaries(t *testing.T) {
	tests := []struct {
		name         string
		days         int
		wantNotif    bool
		wantMaturing bool
	}{
		{"day zero", 0, false, false},
		{"window start", 1, true, true},
		{"window end", 30, true, true},
		{"past window", 31, false, false},
	}

	e := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completePolicy()
			p.RenewalDate = dateInDays(tt.days)

			flags := e.Evaluate(p)
			require.NotNil(t, flags.DaysUntilRenewal)
			assert.Equal(t, tt.days, *flags.DaysUntilRenewal)

			if tt.wantMaturing {
				assert.True(t, flags.ReplacementOpportunity)
				assert.Contains(t, flags.ReplacementReason, "maturing")
			} else {
				assert.False(t, flags.ReplacementOpportunity)
			}

			notifs := e.Notifications(p, flags)
			found := false
			for _, n := range notifs {
				if n.Type == "renewal_in_30_days" {
					found = true
					assert.Equal(t, model.NotifSeverityWarning, n.Severity)
				}
			}
			assert.Equal(t, tt.wantNotif, found)
		})
	}
}

func TestMaturingFixedAnnuity(t *testing.T) {
	p := completePolicy()
	p.Status = "Inforce"
	p.ProductName = "Fixed Annuity Plus"
	p.ProductType = "fixed annuity"
	p.RenewalDate = dateInDays(15)

	flags := testEngine().Evaluate(p)

	assert.True(t, flags.ReplacementOpportunity)
	assert.Contains(t, flags.ReplacementReason, "maturing")
	assert.True(t, flags.ScheduleMeeting)
}

func TestReplacementHeuristics(t *testing.T) {
	tests := []struct {
		name        string
		productName string
		productCode string
		status      string
		want        bool
		wantReason  string
	}{
		{"fixed product", "Fixed Annuity Plus", "FA", "inforce", true, "Fixed/term"},
		{"term product", "Level Term 20", "LT", "inforce", true, "Fixed/term"},
		{"T-prefixed code", "Guardian Select", "T100", "inforce", true, "conversion or replacement"},
		{"no heuristic", "Secure Growth Annuity", "SGA", "inforce", false, ""},
		{"lapsed excluded", "Fixed Annuity Plus", "FA", "lapsed", false, ""},
	}

	e := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completePolicy()
			p.ProductName = tt.productName
			p.ProductCode = tt.productCode
			p.Status = tt.status

			flags := e.Evaluate(p)
			assert.Equal(t, tt.want, flags.ReplacementOpportunity)
			if tt.wantReason != "" {
				assert.Contains(t, flags.ReplacementReason, tt.wantReason)
			}
		})
	}
}

func TestDataQualitySeverity(t *testing.T) {
	e := testEngine()

	t.Run("two issues is medium", func(t *testing.T) {
		p := completePolicy()
		p.PolicyNumber = ""
		p.Carrier = ""

		flags := e.Evaluate(p)
		assert.Len(t, flags.DataQualityIssues, 2)
		assert.Equal(t, model.SeverityMedium, flags.DataQualitySeverity)
	})

	t.Run("three issues is high", func(t *testing.T) {
		p := completePolicy()
		p.PolicyNumber = ""
		p.Carrier = ""
		p.EffectiveDate = ""

		flags := e.Evaluate(p)
		assert.Len(t, flags.DataQualityIssues, 3)
		assert.Equal(t, model.SeverityHigh, flags.DataQualitySeverity)
	})

	t.Run("no issues no severity", func(t *testing.T) {
		flags := e.Evaluate(completePolicy())
		assert.Empty(t, flags.DataQualityIssues)
		assert.Empty(t, flags.DataQualitySeverity)
	})
}

// TestLowSeverityUnreachableAtDefaults pins current behavior: with the
// default breakpoints (medium at 1 issue) the low tier can never fire. The
// tier only becomes reachable when the medium breakpoint is raised.
func TestLowSeverityUnreachableAtDefaults(t *testing.T) {
	p := completePolicy()
	p.Carrier = ""

	flags := testEngine().Evaluate(p)
	assert.Equal(t, model.SeverityMedium, flags.DataQualitySeverity,
		"a single issue classifies medium, not low, at the default breakpoints")

	cfg := DefaultEngineConfig()
	cfg.SeverityMediumCount = 2
	raised := NewWithClock(cfg, func() time.Time { return testToday })
	flags = raised.Evaluate(p)
	assert.Equal(t, model.SeverityLow, flags.DataQualitySeverity,
		"raising the medium breakpoint makes the low tier reachable")
}

func TestSeverityMonotonicity(t *testing.T) {
	rank := map[model.Severity]int{"": 0, model.SeverityLow: 1, model.SeverityMedium: 2, model.SeverityHigh: 3}

	// Strip fields one at a time; severity must never decrease.
	steps := []func(*model.Policy){
		func(p *model.Policy) { p.PolicyNumber = "" },
		func(p *model.Policy) { p.Carrier = "" },
		func(p *model.Policy) { p.EffectiveDate = "" },
		func(p *model.Policy) { p.RoleCount = 0 },
	}

	e := testEngine()
	p := completePolicy()
	prev := rank[e.Evaluate(p).DataQualitySeverity]
	for _, strip := range steps {
		strip(&p)
		cur := rank[e.Evaluate(p).DataQualitySeverity]
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestMissingRolesRequiresRolesKey(t *testing.T) {
	e := testEngine()

	p := completePolicy()
	p.HasRolesKey = false
	p.RoleCount = 0
	flags := e.Evaluate(p)
	assert.NotContains(t, flags.DataQualityIssues, "Missing roles/contacts",
		"feeds that never carry a roles key must not be flagged")

	p.HasRolesKey = true
	flags = e.Evaluate(p)
	assert.Contains(t, flags.DataQualityIssues, "Missing roles/contacts")
}

// TestIncomeActivationBothBranchesEligible pins current behavior: annuities
// report eligible whether or not a payout schedule exists; only the reason
// text differs.
func TestIncomeActivationBothBranchesEligible(t *testing.T) {
	e := testEngine()

	accum := completePolicy()
	accum.ProductType = "fixed annuity"
	accumFlags := e.Evaluate(accum)
	assert.True(t, accumFlags.IncomeActivationEligible)
	assert.Contains(t, accumFlags.IncomeActivationReason, "accumulation")

	payout := accum
	payout.HasPayoutSchedule = true
	payoutFlags := e.Evaluate(payout)
	assert.True(t, payoutFlags.IncomeActivationEligible)
	assert.Contains(t, payoutFlags.IncomeActivationReason, "payout")

	assert.NotEqual(t, accumFlags.IncomeActivationReason, payoutFlags.IncomeActivationReason)
}

func TestIncomeActivationNonAnnuity(t *testing.T) {
	e := testEngine()

	life := completePolicy()
	life.ProductType = "whole life"
	cash := 5000.0
	life.CashValue = &cash
	assert.False(t, e.Evaluate(life).IncomeActivationEligible)

	lapsed := completePolicy()
	lapsed.ProductType = "fixed annuity"
	lapsed.Status = "lapsed"
	assert.False(t, e.Evaluate(lapsed).IncomeActivationEligible)
}

func TestScheduleMeetingInvariant(t *testing.T) {
	e := testEngine()

	t.Run("no triggers no meeting", func(t *testing.T) {
		flags := e.Evaluate(completePolicy())
		assert.False(t, flags.ScheduleMeeting)
		assert.Empty(t, flags.ScheduleMeetingReason)
	})

	t.Run("all triggers joined", func(t *testing.T) {
		p := completePolicy()
		p.ProductName = "Fixed Annuity Plus"
		p.ProductType = "fixed annuity"
		p.Carrier = ""

		flags := e.Evaluate(p)
		require.True(t, flags.ScheduleMeeting)
		assert.Equal(t,
			"Replacement opportunity; Data quality issues to resolve; Income activation eligible",
			flags.ScheduleMeetingReason)
	})
}

func TestEvaluateIdempotent(t *testing.T) {
	e := testEngine()
	p := completePolicy()
	p.ProductType = "fixed annuity"
	p.RenewalDate = dateInDays(10)
	p.Carrier = ""

	first := e.Evaluate(p)
	second := e.Evaluate(p)
	assert.Equal(t, first, second)
}

func TestEvaluateBatchPreservesOrder(t *testing.T) {
	e := testEngine()

	a := completePolicy()
	a.ID = "A"
	b := completePolicy()
	b.ID = "B"
	b.ProductName = "Level Term 20"

	book := e.EvaluateBatch("advisor-9", []model.Policy{a, b})
	require.Len(t, book.Policies, 2)
	assert.Equal(t, "A", book.Policies[0].Policy.ID)
	assert.Equal(t, "B", book.Policies[1].Policy.ID)
	assert.Equal(t, "advisor-9", book.CustomerIdentifier)
	assert.True(t, book.Policies[1].Flags.ReplacementOpportunity)
}

func TestStatusNotifications(t *testing.T) {
	e := testEngine()

	p := completePolicy()
	p.IsMinRateRenewal = true
	p.GuaranteedMinRate = "1.00"
	p.RenewalDate = dateInDays(60)
	p.SuitabilityStatus = "incomplete"
	p.EligibilityStatus = "restricted"

	flags := e.Evaluate(p)
	notifs := e.Notifications(p, flags)

	types := make(map[string]model.Notification, len(notifs))
	for _, n := range notifs {
		types[n.Type] = n
	}

	require.Contains(t, types, "renewal_alert")
	assert.Contains(t, types["renewal_alert"].Message, "minimum rate (1.00)")
	assert.Equal(t, model.NotifSeverityWarning, types["renewal_alert"].Severity)

	require.Contains(t, types, "suitability_incomplete")
	assert.Contains(t, types["suitability_incomplete"].Message, "incomplete")

	require.Contains(t, types, "eligibility_restricted")
	assert.Equal(t, model.NotifSeverityInfo, types["eligibility_restricted"].Severity)

	assert.NotContains(t, types, "renewal_in_30_days", "renewal is outside the window")

	complete := completePolicy()
	complete.SuitabilityStatus = "complete"
	assert.Empty(t, e.Notifications(complete, e.Evaluate(complete)))
}
