package engine

import (
	"context"
	"fmt"
)

// Activate routes a previously issued reference back to its originating
// provider.
//
// Docset-selection references are informational and require no provider
// call. Item references look up the provider by exact name; a provider
// that is no longer registered makes the activation a silent no-op, since
// registry membership may legitimately change between a search and a
// later activation. Only a reference that fails to decode is an error.
func (e *Engine) Activate(ctx context.Context, reference string) error {
	ref, err := DecodeReference(reference)
	if err != nil {
		return err
	}

	if ref.Kind == RefDocSet {
		e.logger.Debugf("docset-selection reference for %s, nothing to do", ref.Provider)
		return nil
	}

	provider, err := e.registry.GetProvider(ref.Provider)
	if err != nil {
		e.logger.Debugf("stale reference for unregistered provider %s, ignoring", ref.Provider)
		return nil
	}

	if err := provider.Open(ctx, ref.DocSetID, ref.ItemID); err != nil {
		return fmt.Errorf("opening item in provider %s: %w", ref.Provider, err)
	}
	return nil
}
