// Package alerts converts evaluated policy flags into the normalized alert
// view consumed by the dashboard, plus its aggregate statistics.
package alerts

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-advisory/renewal-intel/internal/config"
	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// maxDescriptionIssues caps how many data-quality issues are spelled out in
// the alert description.
const maxDescriptionIssues = 3

// Mapper builds dashboard alerts from an evaluated book of business.
type Mapper struct {
	cfg     config.EngineConfig
	printer *message.Printer
	titler  cases.Caser
}

// NewMapper creates a Mapper with the given engine config.
func NewMapper(cfg config.EngineConfig) *Mapper {
	return &Mapper{
		cfg:     cfg,
		printer: message.NewPrinter(language.AmericanEnglish),
		titler:  cases.Title(language.AmericanEnglish),
	}
}

// Map produces one alert per policy plus batch statistics. AlertTypes is
// never empty: a policy with no flag set maps to a default
// suitability-review alert.
func (m *Mapper) Map(book model.BookOfBusiness) ([]model.Alert, model.DashboardStats) {
	alerts := make([]model.Alert, 0, len(book.Policies))
	var stats model.DashboardStats
	var totalValue float64

	for i, pr := range book.Policies {
		policy := pr.Policy
		flags := pr.Flags

		policyID := policy.Key()
		if policyID == "" {
			policyID = fmt.Sprintf("policy-%d", i)
		}

		carrier := policy.Carrier
		if carrier == "" {
			carrier = "N/A"
		}

		value := firstNumericValue(policy)
		totalValue += value

		daysUntil := 0
		if flags.DaysUntilRenewal != nil {
			daysUntil = *flags.DaysUntilRenewal
		} else {
			daysUntil = fallbackRenewalDays(policy)
		}
		if daysUntil <= m.cfg.RenewalNotificationDays {
			stats.Urgent++
		}

		types, primary, description := m.alertTypes(flags)

		priority := alertPriority(flags, pr.Notifications)
		if priority == model.PriorityHigh {
			stats.High++
		}

		renewalDate := "N/A"
		if daysUntil > 0 {
			renewalDate = fmt.Sprintf("%d Days", daysUntil)
		}

		var missingFields []string
		if len(flags.DataQualityIssues) > 0 {
			missingFields = flags.DataQualityIssues
		}

		alerts = append(alerts, model.Alert{
			ID:               fmt.Sprintf("alert-%s-renewal", policyID),
			PolicyID:         policyID,
			ClientName:       book.CustomerIdentifier,
			Carrier:          carrier,
			RenewalDate:      renewalDate,
			DaysUntilRenewal: daysUntil,
			CurrentRate:      rateOrNA(policy.CurrentRate),
			RenewalRate:      rateOrNA(policy.RenewalRate),
			CurrentValue:     m.formatCurrency(value),
			IsMinRate:        policy.IsMinRate,
			Priority:         priority,
			HasDataException: len(flags.DataQualityIssues) > 0,
			Status:           model.StatusPending,
			AlertType:        primary,
			AlertDescription: description,
			MissingFields:    missingFields,
			AlertTypes:       types,
		})
	}

	stats.Total = len(alerts)
	stats.TotalValue = math.Round(totalValue*100) / 100

	zap.L().Info("alerts: batch mapped",
		zap.String("customer", book.CustomerIdentifier),
		zap.Int("total", stats.Total),
		zap.Int("high", stats.High),
		zap.Int("urgent", stats.Urgent),
	)

	return alerts, stats
}

// alertTypes builds the type list, primary type, and description for one
// policy's flags, in fixed priority order.
func (m *Mapper) alertTypes(flags model.PolicyFlags) ([]model.AlertType, model.AlertType, string) {
	var types []model.AlertType
	var descParts []string

	if flags.ReplacementOpportunity {
		types = append(types, model.AlertReplacementOpportunity)
		if flags.ReplacementReason != "" {
			descParts = append(descParts, flags.ReplacementReason)
		} else {
			descParts = append(descParts, "Replacement opportunity")
		}
	}
	if len(flags.DataQualityIssues) > 0 {
		types = append(types, model.AlertMissingInfo)
		issues := flags.DataQualityIssues
		if len(issues) > maxDescriptionIssues {
			issues = issues[:maxDescriptionIssues]
		}
		descParts = append(descParts, "Data quality: "+strings.Join(issues, "; "))
	}
	if flags.IncomeActivationEligible {
		types = append(types, model.AlertIncomePlanning)
		if flags.IncomeActivationReason != "" {
			descParts = append(descParts, flags.IncomeActivationReason)
		} else {
			descParts = append(descParts, "Income activation eligible")
		}
	}
	if flags.ScheduleMeeting && !containsType(types, model.AlertSuitabilityReview) {
		types = append(types, model.AlertSuitabilityReview)
		if flags.ScheduleMeetingReason != "" {
			descParts = append(descParts, flags.ScheduleMeetingReason)
		}
	}

	if len(types) == 0 {
		types = []model.AlertType{model.AlertSuitabilityReview}
		descParts = []string{"Review recommended"}
	}

	primary := types[0]
	description := strings.Join(descParts, "; ")
	if description == "" {
		description = m.titler.String(strings.ReplaceAll(string(primary), "_", " "))
	}

	return types, primary, description
}

// alertPriority classifies the alert's triage level.
func alertPriority(flags model.PolicyFlags, notifs []model.Notification) model.Priority {
	urgentNotif := false
	for _, n := range notifs {
		if n.Severity == model.NotifSeverityUrgent {
			urgentNotif = true
			break
		}
	}

	switch {
	case flags.DataQualitySeverity == model.SeverityHigh || urgentNotif:
		return model.PriorityHigh
	case flags.DataQualitySeverity == model.SeverityMedium || flags.ReplacementOpportunity:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// firstNumericValue picks the first present monetary field, in priority
// order, for the dashboard value columns.
func firstNumericValue(p model.Policy) float64 {
	for _, v := range []*float64{p.CurrentValue, p.AnnuityValue, p.CashValue, p.FaceAmount, p.DeathBenefit} {
		if v != nil {
			return *v
		}
	}
	return 0
}

// fallbackRenewalDays approximates the renewal horizon when the flag engine
// could not derive one: a premium-due or covered-until date implies the
// default window, otherwise unknown (zero).
func fallbackRenewalDays(p model.Policy) int {
	if p.NextPremiumDueDate != nil || p.CoveredUntilDate != nil {
		return 30
	}
	return 0
}

func (m *Mapper) formatCurrency(v float64) string {
	return m.printer.Sprintf("$%d", int64(v))
}

func rateOrNA(rate string) string {
	if rate == "" {
		return "N/A"
	}
	if !strings.Contains(rate, "%") {
		return rate + "%"
	}
	return rate
}

func containsType(types []model.AlertType, t model.AlertType) bool {
	for _, existing := range types {
		if existing == t {
			return true
		}
	}
	return false
}
