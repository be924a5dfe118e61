// Package engine implements the docdex query dispatch and aggregation
// engine.
//
// # Overview
//
// A raw query like "py list" is split into a docset-selection keyword
// ("py") and a search term ("list"). The engine fans out concurrently to
// every registered provider: each provider first resolves the keyword to
// its matching docsets, then (when a term is present) searches each
// matching docset, again concurrently. Heterogeneous provider results are
// converted into a single ranked list of QueryEntry values.
//
// With no search term, the engine instead synthesizes completion hints
// ("Type \"py keyword\" to search Python 3") so a host can guide the user
// toward a full query without paying for an item search.
//
// # Failure isolation
//
// Provider and docset failures are isolated: a provider whose discovery
// or search fails is logged and contributes zero results, and the other
// providers are unaffected. Only a failure of the collection mechanism
// itself (the context being cancelled while waiting on outstanding work)
// aborts a query.
//
// # References
//
// Every entry carries an opaque serialized reference identifying its
// provider, docset and item. Activate decodes such a reference and routes
// the action back to the originating provider without re-running the
// search. References for providers that have since been unregistered are
// ignored; only undecodable references are reported as errors.
//
// # Usage
//
//	registry := core.GetGlobalRegistry()
//	// ... create providers from configuration ...
//	eng := engine.New(registry, 1)
//
//	entries, err := eng.Query(ctx, "py list")
//	if err != nil {
//		// collection failure, not a provider failure
//	}
//	engine.SortEntries(entries)
//
//	// later, with an entry the user picked:
//	err = eng.Activate(ctx, entry.Data)
package engine
