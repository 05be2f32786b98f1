// Package unicodedata is the engine's sole point of contact with Unicode
// data: code-point case folding (for the `i` flag) and property/value
// lookup (for `\p{...}`/`\P{...}`). Per spec.md §1, the data itself is
// treated as a loadable read-only dataset — this package draws on the Go
// standard library's `unicode` package (unicode.Categories, unicode.Scripts,
// unicode.Properties, unicode.SimpleFold), which ships the real Unicode
// Character Database tables, rather than hand-maintaining a duplicate copy.
package unicodedata

import "unicode"

// Canonicalize returns the case-folded form of cp used to compare
// characters under the `i` flag.
//
// Under unicodeMode (the `u` flag), this consults Unicode's simple
// case-folding equivalence classes (unicode.SimpleFold) and returns the
// numerically smallest code point in cp's class — a fixed, idempotent
// choice of representative, so Canonicalize(Canonicalize(c)) == Canonicalize(c).
//
// Otherwise it applies the ECMA-262 Annex-free legacy rule: uppercase the
// single UTF-16 code unit; if the uppercase form does not fit in one
// UTF-16 code unit (i.e. is outside the Basic Multilingual Plane), or if cp
// is non-ASCII but its uppercase form is ASCII, cp is returned unchanged.
func Canonicalize(cp rune, unicodeMode bool) rune {
	if unicodeMode {
		return unicodeCanonicalize(cp)
	}
	return legacyCanonicalize(cp)
}

// Uncanonicalize returns every code point that canonicalizes to the same
// value as cp, including cp itself. Used for character-class membership
// under the `i` flag, where a class built from literal code points must
// also match their case variants.
func Uncanonicalize(cp rune, unicodeMode bool) []rune {
	if unicodeMode {
		return unicodeOrbit(cp)
	}
	return legacyOrbit(cp)
}

func unicodeCanonicalize(cp rune) rune {
	min := cp
	r := unicode.SimpleFold(cp)
	for r != cp {
		if r < min {
			min = r
		}
		r = unicode.SimpleFold(r)
	}
	return min
}

func unicodeOrbit(cp rune) []rune {
	orbit := []rune{cp}
	r := unicode.SimpleFold(cp)
	for r != cp {
		orbit = append(orbit, r)
		r = unicode.SimpleFold(r)
	}
	return orbit
}

func legacyCanonicalize(cp rune) rune {
	u := unicode.ToUpper(cp)
	if u > 0xFFFF {
		// Upper form needs a surrogate pair: not a single UTF-16 code unit.
		return cp
	}
	if cp >= 0x80 && u < 0x80 {
		return cp
	}
	return u
}

func legacyOrbit(cp rune) []rune {
	base := legacyCanonicalize(cp)
	seen := map[rune]bool{}
	var orbit []rune
	add := func(r rune) {
		if !seen[r] && legacyCanonicalize(r) == base {
			seen[r] = true
			orbit = append(orbit, r)
		}
	}
	add(cp)
	add(unicode.ToUpper(cp))
	add(unicode.ToLower(cp))
	for _, r := range unicodeOrbit(cp) {
		add(r)
	}
	return orbit
}
