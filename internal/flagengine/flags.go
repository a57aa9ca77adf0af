package flagengine

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meridian-advisory/renewal-intel/internal/config"
	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// Engine evaluates the per-policy business rules. Evaluation is a pure
// function of the policy, the config, and the injected clock: identical
// inputs at a fixed clock produce byte-identical outputs.
type Engine struct {
	cfg config.EngineConfig
	now func() time.Time
}

// New creates an Engine using the wall clock.
func New(cfg config.EngineConfig) *Engine {
	return NewWithClock(cfg, time.Now)
}

// NewWithClock creates an Engine with an injected clock.
func NewWithClock(cfg config.EngineConfig, now func() time.Time) *Engine {
	return &Engine{cfg: cfg, now: now}
}

// Evaluate runs all rules against one policy and returns its flags.
func (e *Engine) Evaluate(p model.Policy) model.PolicyFlags {
	info := renewalInfo(p, e.now())
	repl, replReason := e.checkReplacementOpportunity(p, info.DaysUntilRenewal)
	issues, severity := e.checkDataQuality(p)
	eligible, incomeReason := checkIncomeActivation(p)
	meeting, meetingReason := recommendScheduleMeeting(repl, issues, eligible)

	return model.PolicyFlags{
		RenewalDate:              info.RenewalDate,
		DaysUntilRenewal:         info.DaysUntilRenewal,
		ReplacementOpportunity:   repl,
		ReplacementReason:        replReason,
		DataQualityIssues:        issues,
		DataQualitySeverity:      severity,
		IncomeActivationEligible: eligible,
		IncomeActivationReason:   incomeReason,
		ScheduleMeeting:          meeting,
		ScheduleMeetingReason:    meetingReason,
	}
}

// checkReplacementOpportunity decides whether a replacement conversation is
// warranted. Only inforce policies qualify. A renewal/maturity inside the
// notification window wins over the product-type heuristic.
func (e *Engine) checkReplacementOpportunity(p model.Policy, daysUntil *int) (bool, string) {
	if !strings.EqualFold(p.Status, "inforce") {
		return false, ""
	}

	if daysUntil != nil && *daysUntil >= 1 && *daysUntil <= e.cfg.RenewalNotificationDays {
		return true, fmt.Sprintf("Policy maturing in next %d days; consider replacement options", e.cfg.RenewalNotificationDays)
	}

	// Heuristic: fixed or older product types may have replacement options.
	name := strings.ToLower(p.ProductName)
	if strings.Contains(name, "fixed") || strings.Contains(name, "term") {
		return true, "Fixed/term product may have replacement options for better value"
	}
	if strings.HasPrefix(p.ProductCode, "T") {
		return true, "Term policy; conversion or replacement may be beneficial"
	}

	return false, ""
}

// checkDataQuality flags missing required fields and classifies severity.
func (e *Engine) checkDataQuality(p model.Policy) ([]string, model.Severity) {
	var issues []string

	if p.PolicyNumber == "" {
		issues = append(issues, "Missing policy number")
	}
	if p.Carrier == "" {
		issues = append(issues, "Missing carrier")
	}
	if p.EffectiveDate == "" {
		issues = append(issues, "Missing effective date")
	}

	// Missing roles/contacts is flagged only when the source explicitly
	// carried a roles key with zero entries; feeds that never populate
	// roles must not produce false positives.
	if p.HasRolesKey && p.RoleCount == 0 && p.ContactCount == 0 && p.ID != "" {
		issues = append(issues, "Missing roles/contacts")
	}

	if len(issues) == 0 {
		return nil, ""
	}
	switch {
	case len(issues) >= e.cfg.SeverityHighCount:
		return issues, model.SeverityHigh
	case len(issues) >= e.cfg.SeverityMediumCount:
		return issues, model.SeverityMedium
	default:
		// Unreachable with the default breakpoints (medium fires at a single
		// issue); kept pending product review of the thresholds.
		return issues, model.SeverityLow
	}
}

// checkIncomeActivation decides income-activation eligibility.
func checkIncomeActivation(p model.Policy) (bool, string) {
	if !strings.EqualFold(p.Status, "inforce") {
		return false, ""
	}

	productType := strings.ToLower(p.ProductType)

	if strings.Contains(productType, "annuity") {
		// Both payout branches currently report eligible; only the reason
		// text differs.
		// TODO: confirm with product whether an annuity already in payout
		// should instead be ineligible.
		if !p.HasPayoutSchedule {
			return true, "Annuity in accumulation phase; eligible for income activation or RMD"
		}
		return true, "Annuity with payout; income options may apply"
	}

	// Life with cash value might have loan/withdrawal options, but those are
	// not income activation.
	if strings.Contains(productType, "life") && p.CashValue != nil && *p.CashValue != 0 {
		return false, ""
	}

	return false, ""
}

// recommendScheduleMeeting is true iff any of the three triggering flags is
// set; the reason is the semicolon-joined list of triggers.
func recommendScheduleMeeting(replacement bool, issues []string, incomeEligible bool) (bool, string) {
	var reasons []string
	if replacement {
		reasons = append(reasons, "Replacement opportunity")
	}
	if len(issues) > 0 {
		reasons = append(reasons, "Data quality issues to resolve")
	}
	if incomeEligible {
		reasons = append(reasons, "Income activation eligible")
	}

	if len(reasons) == 0 {
		return false, ""
	}
	return true, strings.Join(reasons, "; ")
}

// EvaluateBatch evaluates every policy in order and logs a summary.
func (e *Engine) EvaluateBatch(customer string, policies []model.Policy) model.BookOfBusiness {
	book := model.BookOfBusiness{
		CustomerIdentifier: customer,
		Policies:           make([]model.PolicyResult, 0, len(policies)),
	}

	flagged := 0
	for _, p := range policies {
		flags := e.Evaluate(p)
		if flags.ScheduleMeeting {
			flagged++
		}
		book.Policies = append(book.Policies, model.PolicyResult{
			Policy:        p,
			Flags:         flags,
			Notifications: e.Notifications(p, flags),
		})
	}

	zap.L().Info("flagengine: batch evaluated",
		zap.String("customer", customer),
		zap.Int("policies", len(policies)),
		zap.Int("meetings_recommended", flagged),
	)

	return book
}
