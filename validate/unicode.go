package validate

import (
	"fmt"
	"unicode"
)

// Detection is one suspicious rune found by DetectHiddenUnicode.
type Detection struct {
	Rune     rune
	Hex      string
	Index    int
	Category string
}

// DetectHiddenUnicode reports tag characters, bidi controls and other
// invisible format runes that can smuggle instructions through tool input.
// Joiners and variation selectors inside an emoji or ideograph sequence
// are not reported.
func DetectHiddenUnicode(s string) []Detection {
	var found []Detection
	prev := rune(-1)
	for i, r := range s {
		category := classify(r)
		if category != "" && !continuesSequence(prev, r) {
			found = append(found, Detection{
				Rune:     r,
				Hex:      fmt.Sprintf("U+%04X", r),
				Index:    i,
				Category: category,
			})
		}
		prev = r
	}
	return found
}

func classify(r rune) string {
	switch {
	case r >= 0xE0000 && r <= 0xE007F:
		return "tag"
	case r >= 0x202A && r <= 0x202E, r >= 0x2066 && r <= 0x2069, r == 0x200E, r == 0x200F:
		return "bidi"
	case r == 0x200B, r == 0x200C, r == 0x200D, r == 0x2060, r == 0xFEFF:
		return "zero-width"
	case isVariationSelector(r):
		return "variation-selector"
	case unicode.Is(unicode.Co, r):
		return "private-use"
	}
	return ""
}

func isVariationSelector(r rune) bool {
	return r >= 0xFE00 && r <= 0xFE0F || r >= 0xE0100 && r <= 0xE01EF
}

// continuesSequence reports whether r is a joiner or a single variation
// selector that legitimately follows prev. Runs of selectors are reported.
func continuesSequence(prev, r rune) bool {
	switch {
	case r == 0x200D:
		return isSequenceBase(prev) || isVariationSelector(prev)
	case isVariationSelector(r):
		return isSequenceBase(prev)
	}
	return false
}

// isSequenceBase reports whether a joiner or selector may follow r.
// Symbols and modifiers cover emoji, digits and #/* cover keycaps.
func isSequenceBase(r rune) bool {
	switch {
	case r < 0:
		return false
	case unicode.In(r, unicode.So, unicode.Sk, unicode.Han):
		return true
	case r >= '0' && r <= '9', r == '#', r == '*':
		return true
	}
	return false
}
