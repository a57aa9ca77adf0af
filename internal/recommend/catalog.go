// Package recommend ranks a product catalog against a merged client profile.
package recommend

import (
	"github.com/meridian-advisory/renewal-intel/internal/model"
)

// SourceKind labels which catalog variant fed a recommendation run. The
// value doubles as the audit label in the run explanation.
type SourceKind string

const (
	// SourceExternal is the externally-sourced product feed.
	SourceExternal SourceKind = "sureify_products"
	// SourceBaseline is the baseline products table.
	SourceBaseline SourceKind = "db_products"
)

// Catalog is a canonicalized product catalog tagged with its source.
type Catalog struct {
	Kind    SourceKind
	Entries []model.ProductCatalogEntry
}

// SelectCatalog picks the catalog source: the external feed when it has any
// entries, otherwise the baseline table. Each variant has exactly one
// canonicalization path so the choice and its audit label stay together.
func SelectCatalog(external []map[string]any, baseline []model.BaselineProduct) Catalog {
	if len(external) > 0 {
		return Catalog{Kind: SourceExternal, Entries: canonicalizeExternal(external)}
	}
	return Catalog{Kind: SourceBaseline, Entries: canonicalizeBaseline(baseline)}
}
