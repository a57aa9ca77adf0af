package flagengine

import (
	"strings"
	"time"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// dateLayouts are the accepted renewal date string formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
}

// renewalInfo extracts the renewal/maturity date and day count for a policy.
// The first present field wins, in priority order: renewalDate, maturityDate,
// nextPremiumDueDate, coveredUntilDate. Values may be epoch-millisecond
// numerics or date strings; an unparsable string is passed through with a
// nil day count. Day counts are relative to today and never negative —
// a past date yields nil.
func renewalInfo(p model.Policy, today time.Time) model.RenewalInfo {
	raw := firstPresent(p.RenewalDate, p.MaturityDate, p.NextPremiumDueDate, p.CoveredUntilDate)
	if raw == nil {
		return model.RenewalInfo{}
	}

	today = midnightUTC(today)

	if ms, ok := epochMillis(raw); ok {
		d := midnightUTC(time.UnixMilli(ms).UTC())
		return withDays(d.Format("2006-01-02"), daysBetween(today, d))
	}

	s, ok := raw.(string)
	if !ok {
		return model.RenewalInfo{}
	}

	trimmed := strings.TrimSpace(s)
	if len(trimmed) > 10 {
		trimmed = trimmed[:10]
	}
	for _, layout := range dateLayouts {
		d, err := time.ParseInLocation(layout, trimmed, time.UTC)
		if err != nil {
			continue
		}
		return withDays(d.Format("2006-01-02"), daysBetween(today, d))
	}

	// Unknown format: surface the raw value, day count unknown.
	return model.RenewalInfo{RenewalDate: s}
}

func withDays(dateStr string, days int) model.RenewalInfo {
	info := model.RenewalInfo{RenewalDate: dateStr}
	if days >= 0 {
		info.DaysUntilRenewal = &days
	}
	return info
}

// firstPresent returns the first non-nil, non-empty-string candidate.
func firstPresent(candidates ...any) any {
	for _, c := range candidates {
		switch v := c.(type) {
		case nil:
			continue
		case string:
			if v != "" {
				return v
			}
		default:
			return c
		}
	}
	return nil
}

func epochMillis(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
