package flagengine

import (
	"fmt"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// Notifications derives the surfaced messages for one evaluated policy:
// the renewal-window notification plus any status-derived notices carried
// on the normalized record.
func (e *Engine) Notifications(p model.Policy, flags model.PolicyFlags) []model.Notification {
	var notifs []model.Notification
	pid := p.Key()

	if d := flags.DaysUntilRenewal; d != nil && *d >= 1 && *d <= e.cfg.RenewalNotificationDays {
		notifs = append(notifs, model.Notification{
			Type:     "renewal_in_30_days",
			Message:  fmt.Sprintf("Policy renews or matures in %d days", *d),
			PolicyID: pid,
			Severity: model.NotifSeverityWarning,
		})
	}

	if p.IsMinRateRenewal {
		msg := "Rate renewal will drop to minimum rate"
		if p.GuaranteedMinRate != "" {
			msg = fmt.Sprintf("Rate renewal on %s will drop to minimum rate (%s)", flags.RenewalDate, p.GuaranteedMinRate)
		}
		notifs = append(notifs, model.Notification{
			Type:     "renewal_alert",
			Message:  msg,
			PolicyID: pid,
			Severity: model.NotifSeverityWarning,
		})
	}

	if p.SuitabilityStatus != "" && p.SuitabilityStatus != "complete" {
		notifs = append(notifs, model.Notification{
			Type:     "suitability_incomplete",
			Message:  fmt.Sprintf("Suitability assessment is %s", p.SuitabilityStatus),
			PolicyID: pid,
			Severity: model.NotifSeverityWarning,
		})
	}

	if p.EligibilityStatus == "restricted" {
		notifs = append(notifs, model.Notification{
			Type:     "eligibility_restricted",
			Message:  "Policy has restricted eligibility for renewal/exchange",
			PolicyID: pid,
			Severity: model.NotifSeverityInfo,
		})
	}

	return notifs
}
