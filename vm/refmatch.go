package vm

import "github.com/coregx/ecmaregex/unicodedata"

// matchForward compares captured against units starting at pos, code point
// by code point (with canonicalization when ignoreCase), and returns the
// position just past the consumed span. Used by the ref opcode.
func matchForward(units []uint16, pos int, captured []uint16, unicodeMode, ignoreCase bool) (int, bool) {
	cp, cj := pos, 0
	for cj < len(captured) {
		want, wsize := decodeForward(captured, cj, unicodeMode)
		if wsize == 0 {
			break
		}
		got, gsize := decodeForward(units, cp, unicodeMode)
		if gsize == 0 {
			return pos, false
		}
		a, b := want, got
		if ignoreCase {
			a = unicodedata.Canonicalize(a, unicodeMode)
			b = unicodedata.Canonicalize(b, unicodeMode)
		}
		if a != b {
			return pos, false
		}
		cj += wsize
		cp += gsize
	}
	return cp, true
}

// matchBackward is matchForward's mirror for the ref_back opcode: it walks
// captured and units backward from their respective ends.
func matchBackward(units []uint16, pos int, captured []uint16, unicodeMode, ignoreCase bool) (int, bool) {
	cp, cj := pos, len(captured)
	for cj > 0 {
		want, wsize := decodeBackward(captured, cj, unicodeMode)
		if wsize == 0 {
			break
		}
		got, gsize := decodeBackward(units, cp, unicodeMode)
		if gsize == 0 {
			return pos, false
		}
		a, b := want, got
		if ignoreCase {
			a = unicodedata.Canonicalize(a, unicodeMode)
			b = unicodedata.Canonicalize(b, unicodeMode)
		}
		if a != b {
			return pos, false
		}
		cj -= wsize
		cp -= gsize
	}
	return cp, true
}
