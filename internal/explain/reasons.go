package explain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// BuildReasonsToSwitch derives the pros and cons of staying with the current
// product versus switching. The pros are fixed; the cons are computed from
// the spread of the recommended rates.
func BuildReasonsToSwitch(recs []model.Recommendation) model.ReasonsToSwitch {
	pros := []string{
		"No new paperwork or underwriting",
		"Maintains existing carrier relationship",
		"Surrender period already expired or minimal remaining",
	}

	var rates []float64
	for _, r := range recs {
		s := strings.TrimSpace(strings.ReplaceAll(r.Rate, "%", ""))
		if s == "" || s == "N/A" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			continue
		}
		rates = append(rates, v)
	}

	var cons []string
	switch {
	case len(rates) > 0:
		minRate, maxRate := rates[0], rates[0]
		for _, v := range rates[1:] {
			if v < minRate {
				minRate = v
			}
			if v > maxRate {
				maxRate = v
			}
		}
		if minRate < maxRate {
			cons = append(cons, fmt.Sprintf(
				"Significant rate spread of %s points between recommended products (minimum %s%%)",
				formatFloat(maxRate-minRate), formatFloat(minRate),
			))
		}
		if maxRate > 0 {
			cons = append(cons, fmt.Sprintf(
				"Missing opportunity to capture higher market rates (%s%% available)",
				formatFloat(maxRate),
			))
		}
	case len(recs) > 0:
		cons = append(cons, "Missing opportunity to capture higher market rates (check current product rates)")
	}

	return model.ReasonsToSwitch{Pros: pros, Cons: cons}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
