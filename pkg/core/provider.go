package core

import (
	"context"
)

// Provider represents a source of searchable documentation sets.
// All providers in docdex must implement this interface to integrate with
// the query engine.
//
// Providers are self-contained units that:
// - Know how to discover their own docsets (directory scan, API, etc.)
// - Answer ranked full-text searches inside a single docset
// - Perform the activation side effect for a previously returned item
// - Manage their own configuration and lifecycle
//
// Key concepts:
// - Type vs Name: Type is the provider category (e.g., "dash"), Name is
//   the instance (e.g., "zeal_docsets"). Name is embedded in action
//   references, so it must stay stable between a search and a later
//   activation.
// - Concurrency: the engine calls SearchDocSets and Search concurrently
//   on the same instance. Providers must be safe for concurrent use; any
//   internal mutable state (connection caches and the like) is the
//   provider's own responsibility to synchronize.
// - Relevance scale: Search results carry integer relevance scores on a
//   nominal 0-100 scale. The engine divides by 100 and does not clamp;
//   emitting scores outside that range is the provider's contract to keep.
//
// Registration pattern:
//
//	func init() {
//		core.RegisterProviderPrototype("myprovider", &MyProvider{})
//	}
type Provider interface {
	// Type returns the provider type identifier.
	// This should be a constant string that identifies the kind of
	// provider (e.g., "dash"). Used for factory registration and
	// configuration matching.
	Type() string

	// Name returns the unique instance name for this provider.
	// This is the identifier stored inside action references, so two
	// registered providers must never share a name.
	Name() string

	// SearchDocSets returns every docset whose keyword set matches the
	// given query keyword. The matching policy is provider-defined
	// (typically case-insensitive prefix match).
	//
	// An empty result is not an error: it simply means this provider has
	// nothing to contribute for the keyword.
	SearchDocSets(ctx context.Context, keyword string) ([]DocSet, error)

	// Search returns ranked matches for term inside the docset identified
	// by docSetID. docSetID is a value previously returned by
	// SearchDocSets from this same provider.
	//
	// An unknown docSetID must yield an empty result and a nil error;
	// registry membership may change between calls and stale IDs are not
	// a failure condition.
	Search(ctx context.Context, docSetID, term string) ([]SearchEntry, error)

	// Open performs the activation side effect for a previously returned
	// item (e.g., launching a documentation viewer).
	Open(ctx context.Context, docSetID, itemID string) error

	// Close releases any held resources. Called during process shutdown
	// or when removing a provider. Best-effort: a provider that has
	// nothing open should return nil.
	Close() error

	// ConfigType returns a pointer to an empty configuration struct.
	// Used by the system to decode provider sections from the config
	// file before calling Factory.
	ConfigType() interface{}

	// Factory creates a new instance of this provider type.
	//
	// Parameters:
	//   - instanceName: unique name for this provider instance
	//   - config: configuration object (may be nil for defaults)
	//
	// Should validate the config and return a fully initialized provider,
	// ready to answer searches.
	Factory(instanceName string, config interface{}) (Provider, error)
}
