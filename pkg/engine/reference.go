package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedReference is returned by DecodeReference (and therefore
// Activate) when a reference string does not deserialize into a valid
// reference. This is the only activation failure callers are expected to
// report; stale-but-well-formed references are benign no-ops.
var ErrMalformedReference = errors.New("malformed reference")

// ReferenceKind discriminates the two reference variants.
type ReferenceKind string

const (
	// RefDocSet marks a docset-selection reference: the entry was a
	// completion hint and activation requires no provider call.
	RefDocSet ReferenceKind = "docset"

	// RefItem marks a concrete item reference that routes back to the
	// originating provider's Open operation.
	RefItem ReferenceKind = "item"
)

// Reference identifies a provider, docset and optionally an item so a
// displayed result can be activated later without re-running the search.
// References are serialized to compact JSON, which is byte-string safe
// and survives the round trip across the caller boundary unmodified.
type Reference struct {
	Kind     ReferenceKind `json:"kind"`
	Provider string        `json:"provider"`
	DocSetID string        `json:"docset_id"`
	ItemID   string        `json:"item_id,omitempty"`
}

// DocSetReference builds a docset-selection reference.
func DocSetReference(provider, docSetID string) Reference {
	return Reference{Kind: RefDocSet, Provider: provider, DocSetID: docSetID}
}

// ItemReference builds a concrete item reference.
func ItemReference(provider, docSetID, itemID string) Reference {
	return Reference{Kind: RefItem, Provider: provider, DocSetID: docSetID, ItemID: itemID}
}

// EncodeReference serializes a reference for attachment to a QueryEntry.
func EncodeReference(ref Reference) (string, error) {
	data, err := json.Marshal(ref)
	if err != nil {
		return "", fmt.Errorf("encoding reference: %w", err)
	}
	return string(data), nil
}

// DecodeReference parses a reference string previously produced by
// EncodeReference. Any syntactic or structural problem yields an error
// wrapping ErrMalformedReference.
func DecodeReference(s string) (Reference, error) {
	var ref Reference
	if err := json.Unmarshal([]byte(s), &ref); err != nil {
		return Reference{}, fmt.Errorf("%w: %v", ErrMalformedReference, err)
	}

	switch ref.Kind {
	case RefDocSet:
		if ref.ItemID != "" {
			return Reference{}, fmt.Errorf("%w: docset reference carries an item id", ErrMalformedReference)
		}
	case RefItem:
		if ref.ItemID == "" {
			return Reference{}, fmt.Errorf("%w: item reference missing item id", ErrMalformedReference)
		}
	default:
		return Reference{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedReference, ref.Kind)
	}

	if ref.Provider == "" {
		return Reference{}, fmt.Errorf("%w: missing provider", ErrMalformedReference)
	}
	if ref.DocSetID == "" {
		return Reference{}, fmt.Errorf("%w: missing docset id", ErrMalformedReference)
	}

	return ref, nil
}
