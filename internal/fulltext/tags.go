package fulltext

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode selects the native full-text operator a tagged payload turns into.
type Mode int

const (
	// ModeContains maps to CONTAINS(column, 'predicate').
	ModeContains Mode = iota
	// ModeFreeText maps to FREETEXT(column, 'predicate').
	ModeFreeText
)

// Sentinels marking a substring operand as a full-text payload. They are
// part of the wire format shared with the interception layer and must not
// change.
const (
	ContainsTag = "{CONTAINS-AF2E-457D-81C2-85DACAA23B9C}"
	FreeTextTag = "{FREETEXT-CE74-4E5F-9166-878AFA2AC1DF}"
)

// AnyTag matches either sentinel.
var AnyTag = regexp.MustCompile(fmt.Sprintf("(?:%s|%s)",
	regexp.QuoteMeta(ContainsTag), regexp.QuoteMeta(FreeTextTag)))

// String returns the lower-case mode name.
func (m Mode) String() string {
	switch m {
	case ModeContains:
		return "contains"
	case ModeFreeText:
		return "freetext"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "contains" or "freetext" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "contains":
		return ModeContains, nil
	case "freetext":
		return ModeFreeText, nil
	default:
		return 0, fmt.Errorf("unknown search mode %q: must be contains or freetext", s)
	}
}

// Tag returns the sentinel for m.
func Tag(m Mode) string {
	if m == ModeFreeText {
		return FreeTextTag
	}
	return ContainsTag
}

// Encode wraps predicate in a tagged payload: "(" + sentinel + predicate + ")".
// The predicate is copied byte for byte; nothing is validated or escaped.
func Encode(mode Mode, predicate string) string {
	return "(" + Tag(mode) + predicate + ")"
}

// Detect reports whether text contains any sentinel.
func Detect(text string) bool {
	return AnyTag.MatchString(text)
}

// Payload is a decoded tagged payload.
type Payload struct {
	Mode      Mode
	Predicate string
}

// Decode parses a complete tagged payload as produced by Encode.
//
// The leading sentinel decides the mode; everything between it and the
// closing parenthesis is returned verbatim, including any sentinel text the
// caller put in the predicate.
func Decode(payload string) (Payload, bool) {
	if !strings.HasPrefix(payload, "(") || !strings.HasSuffix(payload, ")") {
		return Payload{}, false
	}
	inner := payload[1 : len(payload)-1]

	switch {
	case strings.HasPrefix(inner, ContainsTag):
		return Payload{Mode: ModeContains, Predicate: inner[len(ContainsTag):]}, true
	case strings.HasPrefix(inner, FreeTextTag):
		return Payload{Mode: ModeFreeText, Predicate: inner[len(FreeTextTag):]}, true
	default:
		return Payload{}, false
	}
}
