package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/docdex/docdex/pkg/core"
	"github.com/docdex/docdex/pkg/log"
)

// DefaultMinQueryLength is the minimum keyword length required before any
// provider is consulted.
const DefaultMinQueryLength = 1

// HostConfig is the informational configuration exposed to hosts.
type HostConfig struct {
	MinQueryLength int `json:"min_query_length"`
}

// Engine dispatches free-text queries across all registered providers and
// aggregates their results into a single displayable list. It holds no
// per-query state: everything a caller needs to act on a result later is
// embedded in the result's reference.
type Engine struct {
	registry       *core.Registry
	minQueryLength int
	logger         *log.Logger
}

// New creates an engine over the given provider registry. minQueryLength
// values below 1 fall back to DefaultMinQueryLength.
func New(registry *core.Registry, minQueryLength int) *Engine {
	if minQueryLength < 1 {
		minQueryLength = DefaultMinQueryLength
	}
	return &Engine{
		registry:       registry,
		minQueryLength: minQueryLength,
		logger:         log.For("engine"),
	}
}

// HostConfig returns the engine's host-facing configuration.
func (e *Engine) HostConfig() HostConfig {
	return HostConfig{MinQueryLength: e.minQueryLength}
}

// Teardown is the host lifecycle hook called when the host detaches.
// Provider resources belong to the registry, so there is nothing to
// release here.
func (e *Engine) Teardown() {
	e.logger.Debugf("teardown")
}

// splitQuery trims raw and splits it into the leading keyword and the
// search term. The term is the second whitespace-separated token;
// anything after it is ignored.
func splitQuery(raw string) (keyword, term string) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", ""
	}
	keyword = fields[0]
	if len(fields) > 1 {
		term = fields[1]
	}
	return keyword, term
}

type providerResult struct {
	provider string
	entries  []QueryEntry
	err      error
}

// Query answers a raw query string with a merged result list.
//
// The leading token selects docsets (via each provider's SearchDocSets),
// the optional second token is searched inside the selected docsets. With
// no second token the engine synthesizes completion hints instead of
// searching. Every provider runs concurrently, and a failing provider
// contributes nothing rather than failing the query; only a failure of
// the collection itself (context cancellation while waiting) is returned
// as an error.
//
// Results carry no cross-provider ordering; use SortEntries for display.
func (e *Engine) Query(ctx context.Context, raw string) ([]QueryEntry, error) {
	keyword, term := splitQuery(raw)
	if len(keyword) < e.minQueryLength {
		return []QueryEntry{}, nil
	}

	e.logger.Debugf("query keyword=%q term=%q", keyword, term)

	providers := e.registry.AllProviders()
	resultCh := make(chan providerResult, len(providers))

	for _, p := range providers {
		go func(p core.Provider) {
			entries, err := e.queryProvider(ctx, p, keyword, term)
			resultCh <- providerResult{provider: p.Name(), entries: entries, err: err}
		}(p)
	}

	// Unordered collect: wait for every provider, no early cancellation
	// of siblings when one fails.
	var entries []QueryEntry
	var firstErr error
	for range providers {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("collecting provider results: %w", ctx.Err())
		case r := <-resultCh:
			if r.err != nil && firstErr == nil {
				firstErr = fmt.Errorf("provider %s: %w", r.provider, r.err)
				continue
			}
			entries = append(entries, r.entries...)
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	if entries == nil {
		entries = []QueryEntry{}
	}
	return entries, nil
}

// queryProvider runs one provider's share of a query. Provider failures
// are logged and swallowed; the returned error is reserved for fan-out
// collection failures, which are fatal to the whole query.
func (e *Engine) queryProvider(ctx context.Context, p core.Provider, keyword, term string) ([]QueryEntry, error) {
	docSets, err := p.SearchDocSets(ctx, keyword)
	if err != nil {
		e.logger.Errorf("searching docsets in provider %s: %v", p.Name(), err)
		return nil, nil
	}
	if len(docSets) == 0 {
		return nil, nil
	}

	if term == "" {
		return e.completionEntries(p, docSets), nil
	}

	return e.searchInDocSets(ctx, p, docSets, term)
}

// completionEntries synthesizes one completion-tier entry per
// (docset, keyword) pair, telling the user how to search each docset.
func (e *Engine) completionEntries(p core.Provider, docSets []core.DocSet) []QueryEntry {
	var entries []QueryEntry
	for _, ds := range docSets {
		for _, kw := range ds.Keywords {
			data, err := EncodeReference(DocSetReference(p.Name(), ds.ID))
			if err != nil {
				e.logger.Errorf("encoding docset reference for %s: %v", ds.Name, err)
				continue
			}
			entries = append(entries, QueryEntry{
				DisplayText: fmt.Sprintf("Type \"%s keyword\" to search %s", kw, ds.Name),
				IconName:    ds.Icon,
				MatchType:   MatchCompletion,
				Relevance:   1.0,
				Properties: EntryProperties{
					Category: ds.Name,
					Subtext:  ds.Description,
				},
				Data: data,
			})
		}
	}
	return entries
}

// searchInDocSets queries every docset concurrently and merges the
// results. A failing docset contributes nothing; only a failure of the
// collection itself is returned, and it fails the enclosing query.
func (e *Engine) searchInDocSets(ctx context.Context, p core.Provider, docSets []core.DocSet, term string) ([]QueryEntry, error) {
	resultCh := make(chan []QueryEntry, len(docSets))

	for _, ds := range docSets {
		go func(ds core.DocSet) {
			found, err := p.Search(ctx, ds.ID, term)
			if err != nil {
				e.logger.Errorf("searching docset %s in provider %s: %v", ds.Name, p.Name(), err)
				resultCh <- nil
				return
			}
			resultCh <- e.convertEntries(p.Name(), ds, found)
		}(ds)
	}

	var entries []QueryEntry
	for range docSets {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("collecting docset results: %w", ctx.Err())
		case found := <-resultCh:
			entries = append(entries, found...)
		}
	}
	return entries, nil
}

// convertEntries turns a provider's raw matches into displayable entries.
// Relevance is normalized from the provider's nominal 0-100 scale and is
// deliberately not clamped; out-of-range scores pass through.
func (e *Engine) convertEntries(provider string, ds core.DocSet, found []core.SearchEntry) []QueryEntry {
	entries := make([]QueryEntry, 0, len(found))
	for _, se := range found {
		data, err := EncodeReference(ItemReference(provider, ds.ID, se.ID))
		if err != nil {
			e.logger.Errorf("encoding item reference for %s: %v", se.Title, err)
			continue
		}
		entries = append(entries, QueryEntry{
			DisplayText: se.Title,
			IconName:    se.Type.Icon(),
			MatchType:   MatchExact,
			Relevance:   float64(se.Relevance) / 100.0,
			Properties: EntryProperties{
				Category: ds.Name,
				Subtext:  se.Desc,
			},
			Data: data,
		})
	}
	return entries
}
