// Package catalog loads product catalogs from local files: the baseline
// product table as JSON and carrier rate sheets as XLSX. External catalogs
// arrive through the sureify client, not here.
package catalog

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// LoadBaselineJSON reads a JSON array of baseline products from path.
func LoadBaselineJSON(path string) ([]model.BaselineProduct, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read baseline file")
	}

	var products []model.BaselineProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, eris.Wrap(err, "catalog: decode baseline products")
	}
	return products, nil
}

// LoadExternalJSON reads a JSON array of loosely-shaped external product
// records from path. The records are left as maps; canonicalization happens
// at recommendation time.
func LoadExternalJSON(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read external file")
	}

	var products []map[string]any
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, eris.Wrap(err, "catalog: decode external products")
	}
	return products, nil
}
