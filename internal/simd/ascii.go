// Package simd provides a fast ASCII-only check over UTF-16 code-unit
// slices, adapted from the teacher's byte-oriented SWAR technique
// (coregx-coregex's simd.isASCIIGeneric: "AND with 0x8080808080808080 ...
// if result != 0, at least one byte has high bit set") to this engine's
// 16-bit code-unit input model. internal/prefilter uses FirstNonASCII to
// find where each ASCII window of its literal skip-ahead ends.
package simd

import "github.com/coregx/ecmaregex/internal/cpufeature"

// laneMask has every bit above and including bit 7 of each 16-bit lane
// set (0xFF80 per lane). A code unit u is non-ASCII (u >= 0x0080) iff
// u&0xFF80 != 0, so packing four lanes into one uint64 and masking with
// laneMask tests all four at once, the 16-bit-lane analogue of the
// teacher's byte-lane 0x8080808080808080 mask.
const laneMask = uint64(0xFF80FF80FF80FF80)

// IsASCIIUTF16 reports whether every code unit in units is < 0x80.
//
// Small inputs and the tail of a batched scan fall back to a scalar loop.
// For batch-sized runs it packs four lanes into each masked uint64 word and
// checks one word (or, on CPUs where cpufeature.WideLoopPreferred reports
// true, two words, eight lanes) per batch before falling through to the
// scalar tail, mirroring the
// teacher's "small input: scalar, large input: masked-word" structure.
func IsASCIIUTF16(units []uint16) bool {
	n := len(units)
	const lanesPerWord = 4

	batchWords := 1
	if cpufeature.WideLoopPreferred() {
		batchWords = 2
	}
	batch := lanesPerWord * batchWords

	i := 0
	for i+batch <= n {
		for w := 0; w < batchWords; w++ {
			off := i + w*lanesPerWord
			word := uint64(units[off]) |
				uint64(units[off+1])<<16 |
				uint64(units[off+2])<<32 |
				uint64(units[off+3])<<48
			if word&laneMask != 0 {
				return false
			}
		}
		i += batch
	}
	return scalarASCII(units[i:])
}

func scalarASCII(units []uint16) bool {
	for _, u := range units {
		if u >= 0x80 {
			return false
		}
	}
	return true
}

// FirstNonASCII returns the index of the first code unit >= 0x80, or -1 if
// units is entirely ASCII. Mirrors the teacher's simd.FirstNonASCII, used
// by internal/prefilter to find where its ASCII narrowing window ends.
func FirstNonASCII(units []uint16) int {
	for i, u := range units {
		if u >= 0x80 {
			return i
		}
	}
	return -1
}
