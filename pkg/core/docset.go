package core

// DocSet is a named, keyworded searchable collection belonging to one
// provider. Instances are created during provider discovery and are
// immutable for the lifetime of a single query; the engine never persists
// them.
type DocSet struct {
	// ID is an opaque identifier unique within the owning provider. It is
	// used to route subsequent searches and activations and is never
	// displayed to the user.
	ID string

	// Keywords are the lowercase tokens that select this docset. Any one
	// of them matching the leading query token makes the docset a
	// candidate for searching.
	Keywords []string

	// Name is the display label, also used as the result category.
	Name string

	// Description is shown as result subtext.
	Description string

	// Icon is a renderer-specific icon reference, possibly empty.
	Icon string
}

// SearchEntry is one matched item inside a docset, as returned by a
// provider's Search operation.
type SearchEntry struct {
	Type  EntryType
	Title string
	Desc  string

	// ID is a provider-local locator sufficient to re-open the item later
	// (for the dash provider, a path with an optional #fragment).
	ID string

	// Relevance is a provider-defined integer score, larger is better.
	// Providers are expected to emit values in 0-100; see the Provider
	// contract note on scale.
	Relevance int
}
