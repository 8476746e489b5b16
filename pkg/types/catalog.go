package types

// CatalogItem represents an assessment product with its stored embedding.
// Instances are read fresh from the catalog store for each ranking call and
// are treated as immutable for the duration of that call.
type CatalogItem struct {
	// Identification
	ID   int64
	Name string
	URL  string

	// Capability flags. Nil means the source catalog did not state the
	// capability either way, which scores the same as false.
	RemoteTesting   *bool
	AdaptiveSupport *bool

	// Free-text descriptive fields
	TestTypeCodes string
	Description   string
	JobLevels     string
	Languages     string
	DurationText  string

	// Embedding is the pre-computed vector for this item. All items in a
	// catalog share one dimension; an item whose dimension disagrees with
	// the query vector is skipped during scoring, not an error.
	Embedding []float32
}

// HasEmbedding reports whether the item carries a usable stored embedding.
func (c *CatalogItem) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// SupportsRemote reports whether the item is known to support remote testing.
func (c *CatalogItem) SupportsRemote() bool {
	return c.RemoteTesting != nil && *c.RemoteTesting
}

// SupportsAdaptive reports whether the item is known to use adaptive/IRT
// testing technology.
func (c *CatalogItem) SupportsAdaptive() bool {
	return c.AdaptiveSupport != nil && *c.AdaptiveSupport
}

// ScoredItem is a CatalogItem with the scores from one ranking call.
type ScoredItem struct {
	Item CatalogItem

	// SemanticScore is the raw cosine similarity in [-1, 1]. The combined
	// blend uses its shifted [0, 1] form.
	SemanticScore float64

	// KeywordScore is the field-boosted term match score in [0, 1].
	// Zero in similarity-only mode.
	KeywordScore float64

	// CombinedScore is the weighted blend of the normalized semantic score
	// and the keyword score, rounded to 6 decimal places. Results are
	// ordered by this value, descending.
	CombinedScore float64
}
