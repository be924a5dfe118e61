package engine

import "sort"

// MatchType ranks the two result tiers. Exact item matches always sort
// above docset completion hints, regardless of relevance.
type MatchType int

const (
	MatchCompletion MatchType = 10
	MatchExact      MatchType = 100
)

// EntryProperties carries the display metadata attached to a result.
type EntryProperties struct {
	// Category is the docset display name the entry belongs to.
	Category string `json:"category,omitempty"`

	// Subtext is a short description rendered under the entry.
	Subtext string `json:"subtext,omitempty"`
}

// QueryEntry is one displayable result produced by the engine. Data is
// the only state a caller needs to retain to activate the entry later;
// the engine itself is stateless across calls.
type QueryEntry struct {
	DisplayText string          `json:"display_text"`
	IconName    string          `json:"icon_name,omitempty"`
	MatchType   MatchType       `json:"match_type"`
	Relevance   float64         `json:"relevance"`
	Properties  EntryProperties `json:"properties"`

	// Data is an opaque serialized reference identifying the provider,
	// docset and (for item results) item. It round-trips unmodified
	// through the caller and back into Activate.
	Data string `json:"data"`
}

// SortEntries orders entries for display: exact tier before completion
// tier, then by relevance descending. The sort is stable so each
// provider's internal order is preserved among equals.
func SortEntries(entries []QueryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].MatchType != entries[j].MatchType {
			return entries[i].MatchType > entries[j].MatchType
		}
		return entries[i].Relevance > entries[j].Relevance
	})
}
