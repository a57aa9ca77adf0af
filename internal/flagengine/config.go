// Package flagengine implements per-policy rule evaluation: replacement
// opportunity, data quality, income activation eligibility, and the
// scheduled-meeting recommendation, plus policy notifications.
package flagengine

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/meridian-advisory/renewal-intel/internal/config"
)

// DefaultEngineConfig returns a config.EngineConfig with production defaults.
func DefaultEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		RenewalNotificationDays: 30,
		MaxRecommendations:      10,
		SeverityMediumCount:     1,
		SeverityHighCount:       3,
		MaxConcurrentPolicies:   8,
	}
}

// ValidateConfig checks that an EngineConfig is internally consistent.
func ValidateConfig(c config.EngineConfig) error {
	var errs []string

	if c.RenewalNotificationDays < 1 {
		errs = append(errs, "renewal_notification_days must be >= 1")
	}
	if c.MaxRecommendations < 1 {
		errs = append(errs, "max_recommendations must be >= 1")
	}
	if c.SeverityMediumCount < 1 {
		errs = append(errs, "severity_medium_count must be >= 1")
	}
	if c.SeverityHighCount < c.SeverityMediumCount {
		errs = append(errs, "severity_high_count must be >= severity_medium_count")
	}
	if c.MaxConcurrentPolicies < 1 {
		errs = append(errs, "max_concurrent_policies must be >= 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("flagengine: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ConfigSummary renders the tunable engine constants, for startup logging.
func ConfigSummary(c config.EngineConfig) string {
	return fmt.Sprintf("window=%dd max_recs=%d severity=%d/%d",
		c.RenewalNotificationDays, c.MaxRecommendations,
		c.SeverityMediumCount, c.SeverityHighCount)
}
