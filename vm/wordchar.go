package vm

// isWordChar implements ECMA-262's WordCharacters set for \b/\B/word_boundary:
// always the fixed ASCII set, independent of the i/u flags (unlike \w itself,
// which the compiler may widen under u+i — see compiler.asciiWordSet).
func isWordChar(cp rune) bool {
	switch {
	case cp >= 'a' && cp <= 'z':
		return true
	case cp >= 'A' && cp <= 'Z':
		return true
	case cp >= '0' && cp <= '9':
		return true
	case cp == '_':
		return true
	default:
		return false
	}
}

// wordBoundaryHere computes isWord(prev) XOR isWord(next) at pos, per
// spec.md §4.5.4's word_boundary contract.
func wordBoundaryHere(units []uint16, pos int, unicodeMode bool) bool {
	prev, _ := decodeBackward(units, pos, unicodeMode)
	next, _ := decodeForward(units, pos, unicodeMode)
	return isWordChar(prev) != isWordChar(next)
}
