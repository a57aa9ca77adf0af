package source

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

func TestNormalizeFullRecord(t *testing.T) {
	raw := map[string]any{
		"ID":            "POL-1001",
		"policyNumber":  "FA-2201-X",
		"carrier":       "Granite Life",
		"status":        "inforce",
		"effectiveDate": "2020-09-01",
		"productSnapshot": map[string]any{
			"name":        "Granite Fixed Annuity 5",
			"productCode": "GFA5",
			"type":        map[string]any{"name": "fixed annuity"},
		},
		"renewalDate":       "2025-09-12",
		"currentValue":      map[string]any{"value": 180000.0},
		"currentRate":       "4.15",
		"guaranteedMinRate": "1.00",
		"isMinRateRenewal":  true,
		"suitabilityStatus": "incomplete",
		"eligibilityStatus": "eligible",
		"roles":             []any{map[string]any{"role": "owner"}},
	}

	p, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "POL-1001", p.ID)
	assert.Equal(t, "Granite Fixed Annuity 5", p.ProductName)
	assert.Equal(t, "GFA5", p.ProductCode)
	assert.Equal(t, "fixed annuity", p.ProductType)
	assert.Equal(t, "2025-09-12", p.RenewalDate)
	require.NotNil(t, p.CurrentValue)
	assert.Equal(t, 180000.0, *p.CurrentValue)
	assert.Equal(t, "4.15", p.CurrentRate)
	assert.True(t, p.IsMinRateRenewal)
	assert.True(t, p.HasRolesKey)
	assert.Equal(t, 1, p.RoleCount)
}

func TestNormalizeProductType(t *testing.T) {
	tests := []struct {
		name string
		snap any
		want string
	}{
		{"type as string", map[string]any{"type": "term life"}, "term life"},
		{"type name object", map[string]any{"type": map[string]any{"name": "fixed annuity"}}, "fixed annuity"},
		{"double nested name", map[string]any{"type": map[string]any{"name": map[string]any{"name": "variable annuity"}}}, "variable annuity"},
		{"missing type", map[string]any{"name": "X"}, ""},
		{"no snapshot", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{"ID": "P"}
			if tt.snap != nil {
				raw["productSnapshot"] = tt.snap
			}
			p, err := Normalize(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.ProductType)
		})
	}
}

func TestNormalizeMoneyShapes(t *testing.T) {
	p, err := Normalize(map[string]any{
		"ID":           "P",
		"currentValue": map[string]any{"value": 180000.0},
		"faceAmount":   250000.0,
		"annuityValue": 96000,
		"cashValue":    map[string]any{"value": "not numeric"},
	})
	require.NoError(t, err)

	require.NotNil(t, p.CurrentValue)
	assert.Equal(t, 180000.0, *p.CurrentValue)
	require.NotNil(t, p.FaceAmount)
	assert.Equal(t, 250000.0, *p.FaceAmount)
	require.NotNil(t, p.AnnuityValue)
	assert.Equal(t, 96000.0, *p.AnnuityValue)
	assert.Nil(t, p.CashValue)
	assert.Nil(t, p.DeathBenefit)
}

func TestNormalizeRates(t *testing.T) {
	t.Run("top level", func(t *testing.T) {
		p, err := Normalize(map[string]any{"ID": "P", "currentRate": "4.15"})
		require.NoError(t, err)
		assert.Equal(t, "4.15", p.CurrentRate)
	})

	t.Run("nested rates object", func(t *testing.T) {
		p, err := Normalize(map[string]any{
			"ID":    "P",
			"rates": map[string]any{"currentRate": "3.90", "renewalRate": 1.5},
		})
		require.NoError(t, err)
		assert.Equal(t, "3.90", p.CurrentRate)
		assert.Equal(t, "1.5", p.RenewalRate)
	})

	t.Run("top level wins over nested", func(t *testing.T) {
		p, err := Normalize(map[string]any{
			"ID":          "P",
			"currentRate": "4.15",
			"rates":       map[string]any{"currentRate": "3.90"},
		})
		require.NoError(t, err)
		assert.Equal(t, "4.15", p.CurrentRate)
	})
}

func TestNormalizePayoutSchedule(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"absent", nil, false},
		{"bool true", true, true},
		{"empty map", map[string]any{}, false},
		{"populated map", map[string]any{"frequency": "monthly"}, true},
		{"empty list", []any{}, false},
		{"populated list", []any{"q1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]any{"ID": "P"}
			if tt.value != nil {
				raw["payoutSchedule"] = tt.value
			}
			p, err := Normalize(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.HasPayoutSchedule)
		})
	}
}

func TestNormalizeRolesKeyTracking(t *testing.T) {
	p, err := Normalize(map[string]any{"ID": "P"})
	require.NoError(t, err)
	assert.False(t, p.HasRolesKey, "absent roles key must not be recorded as empty roles")
	assert.Zero(t, p.RoleCount)

	p, err = Normalize(map[string]any{"ID": "P", "roles": []any{}})
	require.NoError(t, err)
	assert.True(t, p.HasRolesKey)
	assert.Zero(t, p.RoleCount)

	p, err = Normalize(map[string]any{
		"ID":       "P",
		"roles":    []any{map[string]any{}, map[string]any{}},
		"contacts": []any{map[string]any{}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, p.RoleCount)
	assert.Equal(t, 1, p.ContactCount)
}

func TestNormalizeNilRecord(t *testing.T) {
	_, err := Normalize(nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, model.ErrInvalidInput))
}

func TestNormalizeBatch(t *testing.T) {
	t.Run("preserves order", func(t *testing.T) {
		policies, err := NormalizeBatch([]map[string]any{
			{"ID": "A"},
			{"ID": "B"},
		})
		require.NoError(t, err)
		require.Len(t, policies, 2)
		assert.Equal(t, "A", policies[0].ID)
		assert.Equal(t, "B", policies[1].ID)
	})

	t.Run("rejects whole batch on malformed record", func(t *testing.T) {
		policies, err := NormalizeBatch([]map[string]any{
			{"ID": "A"},
			nil,
		})
		require.Error(t, err)
		assert.True(t, eris.Is(err, model.ErrInvalidInput))
		assert.Nil(t, policies)
	})

	t.Run("empty batch", func(t *testing.T) {
		policies, err := NormalizeBatch(nil)
		require.NoError(t, err)
		assert.Empty(t, policies)
	})
}
