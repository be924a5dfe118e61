package core

import "strings"

// EntryType classifies the kind of item a search entry points at.
// The well-known kinds below get dedicated icons; any other value is
// carried through verbatim as a provider-specific kind with no icon.
type EntryType string

const (
	EntryClass    EntryType = "Class"
	EntryFunction EntryType = "Function"
	EntryMethod   EntryType = "Method"
	EntryEnum     EntryType = "Enum"
	EntryConstant EntryType = "Constant"
	EntryOption   EntryType = "Option"
	EntryGuide    EntryType = "Guide"
	EntryModule   EntryType = "Module"
)

var knownEntryTypes = []EntryType{
	EntryClass, EntryFunction, EntryMethod, EntryEnum,
	EntryConstant, EntryOption, EntryGuide, EntryModule,
}

// ParseEntryType canonicalizes a docset type string. Well-known kinds are
// matched case-insensitively; anything else is preserved as-is so
// providers can surface their own kinds.
func ParseEntryType(s string) EntryType {
	for _, t := range knownEntryTypes {
		if strings.EqualFold(s, string(t)) {
			return t
		}
	}
	return EntryType(s)
}

// Icon returns the display icon name for this entry type. The mapping is
// fixed; kinds without a dedicated icon map to the empty string.
func (t EntryType) Icon() string {
	switch t {
	case EntryClass:
		return "class-or-package"
	case EntryMethod, EntryFunction:
		return "code-function"
	case EntryEnum:
		return "enum"
	case EntryConstant:
		return "code-variable"
	default:
		return ""
	}
}
