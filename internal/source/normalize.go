// Package source is the adapter layer between loosely-shaped, multi-vendor
// policy records and the strict internal model. Every key alias lives here;
// no rule engine ever branches on a raw source key.
package source

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// Normalize converts one raw policy record into the canonical model.Policy.
// Field aliases resolved here:
//   - product name/code/type come from the nested productSnapshot, with the
//     type possibly wrapped one level deeper ({type: {name: {name: ...}}})
//   - monetary fields may be plain numerics or wrapped as {value: n}
//   - rates may sit at the top level or under a rates object
//
// Date fields are passed through raw; the flag engine owns their parsing.
func Normalize(raw map[string]any) (model.Policy, error) {
	if raw == nil {
		return model.Policy{}, eris.Wrap(model.ErrInvalidInput, "source: nil policy record")
	}

	p := model.Policy{
		ID:            getString(raw, "ID"),
		PolicyNumber:  getString(raw, "policyNumber"),
		Carrier:       getString(raw, "carrier"),
		Status:        getString(raw, "status"),
		EffectiveDate: getString(raw, "effectiveDate"),

		ProductName: nestedString(raw, "productSnapshot", "name"),
		ProductCode: nestedString(raw, "productSnapshot", "productCode"),
		ProductType: productType(raw),

		RenewalDate:        raw["renewalDate"],
		MaturityDate:       raw["maturityDate"],
		NextPremiumDueDate: raw["nextPremiumDueDate"],
		CoveredUntilDate:   raw["coveredUntilDate"],

		CurrentValue: money(raw, "currentValue"),
		AnnuityValue: money(raw, "annuityValue"),
		CashValue:    money(raw, "cashValue"),
		FaceAmount:   money(raw, "faceAmount"),
		DeathBenefit: money(raw, "deathBenefit"),

		CurrentRate:       rateString(raw, "currentRate"),
		RenewalRate:       rateString(raw, "renewalRate"),
		GuaranteedMinRate: getString(raw, "guaranteedMinRate"),
		IsMinRate:         getBool(raw, "isMinRate"),

		HasPayoutSchedule: truthy(raw["payoutSchedule"]),

		SuitabilityStatus: getString(raw, "suitabilityStatus"),
		EligibilityStatus: getString(raw, "eligibilityStatus"),
		IsMinRateRenewal:  getBool(raw, "isMinRateRenewal"),
	}

	if _, ok := raw["roles"]; ok {
		p.HasRolesKey = true
		p.RoleCount = listLen(raw["roles"])
	}
	p.ContactCount = listLen(raw["contacts"])

	return p, nil
}

// NormalizeBatch converts a raw policy batch, rejecting the whole batch on
// the first malformed record so no partial computation happens downstream.
func NormalizeBatch(raws []map[string]any) ([]model.Policy, error) {
	policies := make([]model.Policy, 0, len(raws))
	for i, raw := range raws {
		p, err := Normalize(raw)
		if err != nil {
			return nil, eris.Wrapf(err, "source: record %d", i)
		}
		policies = append(policies, p)
	}
	return policies, nil
}

// productType resolves productSnapshot.type.name, tolerating an extra
// nesting level where type.name is itself an object with a name key.
func productType(raw map[string]any) string {
	snap, _ := raw["productSnapshot"].(map[string]any)
	if snap == nil {
		return ""
	}
	typ := snap["type"]
	if m, ok := typ.(map[string]any); ok {
		name := m["name"]
		if inner, ok := name.(map[string]any); ok {
			name = inner["name"]
		}
		if s, ok := name.(string); ok {
			return s
		}
		return ""
	}
	if s, ok := typ.(string); ok {
		return s
	}
	return ""
}

func getString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func getBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func nestedString(m map[string]any, keys ...string) string {
	var cur any = m
	for _, k := range keys {
		mm, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = mm[k]
	}
	s, _ := cur.(string)
	return s
}

// money reads a monetary field that is either a bare numeric or an object
// wrapping the numeric under a value key.
func money(m map[string]any, key string) *float64 {
	v := m[key]
	if wrapped, ok := v.(map[string]any); ok {
		v = wrapped["value"]
	}
	return numeric(v)
}

func numeric(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	default:
		return nil
	}
}

// rateString reads a rate from the top level or from a nested rates object,
// preserving the raw representation; display formatting happens later.
func rateString(m map[string]any, key string) string {
	v := m[key]
	if v == nil {
		if rates, ok := m["rates"].(map[string]any); ok {
			v = rates[key]
		}
	}
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		return r
	case float64, float32, int, int64:
		return fmt.Sprintf("%v", r)
	default:
		return ""
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

func listLen(v any) int {
	if l, ok := v.([]any); ok {
		return len(l)
	}
	return 0
}
