package catalog

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// Rate-sheet column headers, matched case-insensitively after trimming.
const (
	colProductID      = "product_id"
	colProductName    = "product_name"
	colCarrier        = "carrier"
	colFixedRate      = "current_fixed_rate"
	colGuaranteedRate = "guaranteed_minimum_rate"
	colCDSCYears      = "cdsc_years"
	colFreeWithdrawal = "free_withdrawal_percent"
	colRiskProfile    = "risk_profile"
	colSuitableFor    = "suitable_for"
	colKeyBenefits    = "key_benefits"
)

// LoadBaselineXLSX reads a carrier rate sheet and returns baseline products.
// The first row must be a header naming at least product_id, product_name,
// and carrier; rows missing a product_id are skipped.
func LoadBaselineXLSX(path string) ([]model.BaselineProduct, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: open rate sheet")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("catalog: rate sheet has no sheets")
	}
	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.New("catalog: rate sheet is empty")
	}

	header := headerIndex(sheet.Rows[0])
	for _, required := range []string{colProductID, colProductName, colCarrier} {
		if _, ok := header[required]; !ok {
			return nil, eris.Errorf("catalog: rate sheet missing column %q", required)
		}
	}

	var products []model.BaselineProduct
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)

		id := cellAt(cells, header, colProductID)
		if id == "" {
			continue
		}

		products = append(products, model.BaselineProduct{
			ProductID:             id,
			ProductName:           cellAt(cells, header, colProductName),
			Carrier:               cellAt(cells, header, colCarrier),
			CurrentFixedRate:      floatAt(cells, header, colFixedRate),
			GuaranteedMinimumRate: floatAt(cells, header, colGuaranteedRate),
			CDSCYears:             intAt(cells, header, colCDSCYears),
			FreeWithdrawalPercent: floatAt(cells, header, colFreeWithdrawal),
			RiskProfile:           cellAt(cells, header, colRiskProfile),
			SuitableFor:           cellAt(cells, header, colSuitableFor),
			KeyBenefits:           cellAt(cells, header, colKeyBenefits),
		})
	}

	return products, nil
}

func headerIndex(row *xlsx.Row) map[string]int {
	idx := make(map[string]int, len(row.Cells))
	for i, cell := range row.Cells {
		name := strings.ToLower(strings.TrimSpace(cell.String()))
		if name != "" {
			idx[name] = i
		}
	}
	return idx
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = strings.TrimSpace(cell.String())
	}
	return cells
}

func cellAt(cells []string, header map[string]int, col string) string {
	i, ok := header[col]
	if !ok || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func floatAt(cells []string, header map[string]int, col string) *float64 {
	s := strings.TrimSuffix(cellAt(cells, header, col), "%")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func intAt(cells []string, header map[string]int, col string) *int {
	s := cellAt(cells, header, col)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
