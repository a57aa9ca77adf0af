package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// canonicalizeExternal converts externally-sourced product records into
// canonical entries. Records arrive in two shapes: already-canonical (keyed
// by product_id) and legacy (identity under ID/productCode, details in a
// flat attribute list). Entries without a resolvable product id are dropped.
func canonicalizeExternal(raw []map[string]any) []model.ProductCatalogEntry {
	entries := make([]model.ProductCatalogEntry, 0, len(raw))
	for _, p := range raw {
		entry, ok := externalEntry(p)
		if !ok {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func externalEntry(p map[string]any) (model.ProductCatalogEntry, bool) {
	if id := stringValue(p["product_id"]); id != "" {
		entry := model.ProductCatalogEntry{
			ProductID:         id,
			Name:              stringValue(p["name"]),
			Carrier:           stringValue(p["carrier"]),
			Rate:              ensurePercent(stringValue(p["rate"])),
			Term:              stringValue(p["term"]),
			SurrenderPeriod:   stringValue(p["surrenderPeriod"]),
			FreeWithdrawal:    stringValue(p["freeWithdrawal"]),
			GuaranteedMinRate: stringValue(p["guaranteedMinRate"]),
			RiskProfile:       stringValue(p["risk_profile"]),
		}
		return entry, true
	}

	// Legacy shape: identity fields at the top level, the rest flattened
	// into an attribute list of {name|key, value|val} pairs. Some feeds put
	// the rate at the top level instead of in the attributes.
	attrs := attributeMap(p["attributes"])

	id := stringValue(p["ID"])
	if id == "" {
		id = stringValue(p["productId"])
	}
	if id == "" {
		id = stringValue(p["productCode"])
	}
	if id == "" {
		return model.ProductCatalogEntry{}, false
	}

	name := stringValue(p["name"])
	if name == "" {
		name = "Unknown"
	}
	carrier := stringValue(p["carrierCode"])
	if carrier == "" {
		carrier = stringValue(p["carrier"])
	}

	rate := attrs["rate"]
	if rate == "" {
		rate = stringValue(p["rate"])
	}
	if rate == "" {
		rate = "N/A"
	}
	risk := attrs["riskprofile"]
	if risk == "" {
		risk = attrs["risk_profile"]
	}

	return model.ProductCatalogEntry{
		ProductID:   id,
		Name:        name,
		Carrier:     carrier,
		Rate:        ensurePercent(rate),
		Term:        attrs["term"],
		RiskProfile: risk,
	}, true
}

// attributeMap flattens an attribute list into a lowercase-keyed map.
func attributeMap(v any) map[string]string {
	attrs := map[string]string{}
	list, ok := v.([]any)
	if !ok {
		return attrs
	}
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		key := stringValue(m["name"])
		if key == "" {
			key = stringValue(m["key"])
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		val := m["value"]
		if val == nil {
			val = m["val"]
		}
		attrs[strings.ToLower(key)] = stringValue(val)
	}
	return attrs
}

// canonicalizeBaseline converts baseline products-table rows into canonical
// entries. The fixed rate wins over the guaranteed minimum when both exist.
func canonicalizeBaseline(rows []model.BaselineProduct) []model.ProductCatalogEntry {
	entries := make([]model.ProductCatalogEntry, 0, len(rows))
	for _, row := range rows {
		if row.ProductID == "" {
			continue
		}

		rate := row.CurrentFixedRate
		if rate == nil {
			rate = row.GuaranteedMinimumRate
		}

		surrender := ""
		if row.CDSCYears != nil {
			surrender = strconv.Itoa(*row.CDSCYears)
		}

		name := row.ProductName
		if name == "" {
			name = "Unknown"
		}

		entries = append(entries, model.ProductCatalogEntry{
			ProductID:         row.ProductID,
			Name:              name,
			Carrier:           row.Carrier,
			Rate:              formatRate(rate),
			SurrenderPeriod:   surrender,
			FreeWithdrawal:    formatRate(row.FreeWithdrawalPercent),
			GuaranteedMinRate: formatRate(row.GuaranteedMinimumRate),
			RiskProfile:       row.RiskProfile,
			SuitableFor:       row.SuitableFor,
			KeyBenefits:       row.KeyBenefits,
		})
	}
	return entries
}

// formatRate renders a numeric rate with a percent suffix, or N/A when the
// source did not provide one.
func formatRate(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "%"
}

// ensurePercent appends a percent sign to bare numeric rates.
func ensurePercent(rate string) string {
	if rate == "" {
		return "N/A"
	}
	if rate == "N/A" || strings.Contains(rate, "%") {
		return rate
	}
	return rate + "%"
}

func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}
