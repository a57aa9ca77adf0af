package sureify

import "context"

// Mock implements Client with canned data for offline runs and demos. It is
// selected automatically when no base URL is configured.
type Mock struct{}

// NewMock creates an offline client.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Authenticate(ctx context.Context) error {
	return nil
}

func (m *Mock) GetBookOfBusiness(ctx context.Context) ([]map[string]any, error) {
	return []map[string]any{
		{
			"ID":           "POL-1001",
			"policyNumber": "FA-2201-X",
			"carrier":      "Granite Life",
			"status":       "inforce",
			"productSnapshot": map[string]any{
				"name":        "Granite Fixed Annuity 5",
				"productCode": "GFA5",
				"type":        map[string]any{"name": "fixed annuity"},
			},
			"effectiveDate":     "2020-09-01",
			"renewalDate":       "2025-09-12",
			"currentValue":      map[string]any{"value": 180000.0},
			"currentRate":       "4.15",
			"renewalRate":       "1.00",
			"guaranteedMinRate": "1.00",
			"isMinRateRenewal":  true,
			"suitabilityStatus": "incomplete",
			"eligibilityStatus": "eligible",
			"roles":             []any{map[string]any{"role": "owner"}},
		},
		{
			"ID":      "POL-1002",
			"carrier": "",
			"status":  "inforce",
			"productSnapshot": map[string]any{
				"name": "Shield Term 20",
				"type": map[string]any{"name": "term life"},
			},
			"coveredUntilDate": "2031-04-01",
			"faceAmount":       250000.0,
			"roles":            []any{},
		},
		{
			"ID":           "POL-1003",
			"policyNumber": "SPIA-88",
			"carrier":      "Harbor Mutual",
			"status":       "inforce",
			"productSnapshot": map[string]any{
				"name":        "Harbor Income SPIA",
				"productCode": "HSPIA",
				"type":        map[string]any{"name": "immediate annuity"},
			},
			"effectiveDate":      "2018-01-15",
			"annuityValue":       map[string]any{"value": 96000.0},
			"payoutSchedule":     map[string]any{"frequency": "monthly"},
			"nextPremiumDueDate": "2025-10-01",
			"suitabilityStatus":  "complete",
			"eligibilityStatus":  "restricted",
			"roles":              []any{map[string]any{"role": "annuitant"}},
		},
	}, nil
}

func (m *Mock) GetSuitabilityData(ctx context.Context) ([]map[string]any, error) {
	return []map[string]any{
		{
			"risk_tolerance":       "moderate",
			"primary_objective":    "growth with protection",
			"liquidity_importance": "somewhat important",
			"investment_horizon":   "10+ years",
			"age":                  58,
			"state":                "CA",
			"tax_bracket":          "24%",
		},
	}, nil
}

func (m *Mock) GetProductOptions(ctx context.Context) ([]map[string]any, error) {
	return []map[string]any{
		{
			"productId":   "EXT-501",
			"name":        "Summit MYGA 5",
			"carrierCode": "Summit Re",
			"rate":        "5.10%",
			"attributes": []any{
				map[string]any{"name": "riskprofile", "value": "Conservative"},
				map[string]any{"name": "term", "value": "5 years"},
			},
		},
		{
			"ID":          "EXT-502",
			"name":        "Crestline Fixed 3",
			"carrierCode": "Crestline",
			"attributes": []any{
				map[string]any{"key": "rate", "val": "4.35"},
			},
		},
		{
			"productCode": "EXT-503",
			"carrier":     "Bluewater",
			"rate":        4.6,
		},
	}, nil
}
