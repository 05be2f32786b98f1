// Package prefilter builds an optional literal skip-ahead accelerator for
// the vm package's top-level scan (spec.md §4.5.2), grounded on the
// teacher's meta.Engine strategy of falling back to
// github.com/coregx/ahocorasick for large literal alternations
// (coregx-coregex's meta/compile.go: "Build Aho-Corasick automaton for
// large literal alternations"). Unlike the teacher, this package never
// changes the matching strategy itself — the VM always runs the
// backtracking program from spec.md §4.5; the automaton only narrows
// which start offsets the VM bothers to try, exactly the "fast path for
// back-reference-free patterns" spec.md §9 explicitly permits without
// mandating.
package prefilter

import (
	"github.com/coregx/ecmaregex/compiler"
	"github.com/coregx/ecmaregex/internal/simd"

	"github.com/coregx/ahocorasick"
)

// ExtractLiterals walks prog's opcode stream and returns the ASCII byte
// literals required at the start of every top-level alternative: a run of
// consecutive `char` opcodes (none of them case-insensitive) before the
// first opcode of a different kind along that branch.
//
// Returns nil when prog is sticky (a sticky match must be tried at exactly
// the caller's offset; narrowing which offsets to try is meaningless and
// would be actively wrong — see vm.Proc.Scan, which never consults an
// accelerator for a sticky program), when any top-level alternative has no
// such literal prefix (the automaton could not rule that branch out, so
// building one that only covers some alternatives would wrongly skip
// offsets where a literal-less branch could still match), or when any
// candidate literal contains a non-ASCII code point.
func ExtractLiterals(prog *compiler.Program) [][]byte {
	if prog.Flags.Sticky {
		return nil
	}
	if len(prog.Ops) == 0 || prog.Ops[0].Kind != compiler.OpCapBegin {
		return nil
	}

	starts := alternativeStarts(prog.Ops, 1)
	literals := make([][]byte, 0, len(starts))
	for _, pc := range starts {
		lit, ok := literalAt(prog.Ops, pc, prog.Flags.IgnoreCase)
		if !ok {
			return nil
		}
		literals = append(literals, lit)
	}
	return literals
}

// alternativeStarts walks the fork_cont chain a compiled Disjunction
// produces (compiler.lowerDisjunction: "fork_cont N0+1 ; <c0> ; jump M1 ;
// <c1> ; ...") and returns the opcode index where each alternative's body
// begins. A program with no top-level disjunction returns a single start:
// pc itself.
func alternativeStarts(ops []compiler.Opcode, pc int) []int {
	if pc >= len(ops) || ops[pc].Kind != compiler.OpForkCont {
		return []int{pc}
	}
	bodyStart := pc + 1
	nextChain := pc + 1 + ops[pc].Rel
	return append([]int{bodyStart}, alternativeStarts(ops, nextChain)...)
}

// literalAt reads consecutive non-case-insensitive `char` opcodes starting
// at pc, stopping at the first opcode of another kind. ok is false if the
// run is empty (no required literal) or contains a non-ASCII code point.
func literalAt(ops []compiler.Opcode, pc int, patternIgnoreCase bool) ([]byte, bool) {
	var out []byte
	for pc < len(ops) && ops[pc].Kind == compiler.OpChar && !ops[pc].IgnoreCase {
		cp := ops[pc].Char
		if cp < 0 || cp >= 0x80 {
			return nil, false
		}
		out = append(out, byte(cp))
		pc++
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

// Accelerator wraps a built Aho-Corasick automaton to implement
// vm.Accelerator: narrow candidate start offsets to ones the automaton
// proves could begin a match.
type Accelerator struct {
	auto *ahocorasick.Automaton
}

// Build compiles literals into an Accelerator. Returns an error only if
// the underlying automaton construction fails (e.g. an empty pattern
// set); callers should treat that as "no acceleration available" rather
// than a fatal condition.
func Build(literals [][]byte) (*Accelerator, error) {
	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Accelerator{auto: auto}, nil
}

// Next implements vm.Accelerator. The automaton matches bytes while this
// engine's input is UTF-16 code units, so acceleration is only sound over
// windows of pure ASCII, where the two encodings agree unit-for-unit. Next
// walks from forward one maximal ASCII window at a time: a non-ASCII code
// unit can never begin one of the required literals (they were narrowed to
// ASCII by ExtractLiterals), so each such unit is skipped outright; a
// window that contains no literal start is itself skipped (plus the
// non-ASCII unit that ended it) rather than ending the search, since a
// later window may still hold a match. Only when a window runs to the end
// of units with no hit does Next report that no further offset can match.
func (a *Accelerator) Next(units []uint16, from int) (int, bool) {
	pos := from
	for pos < len(units) {
		window := units[pos:]
		asciiLen := len(window)
		if i := simd.FirstNonASCII(window); i >= 0 {
			asciiLen = i
		}
		if asciiLen == 0 {
			pos++
			continue
		}

		bytes := make([]byte, asciiLen)
		for i, u := range window[:asciiLen] {
			bytes[i] = byte(u)
		}

		if m := a.auto.Find(bytes, 0); m != nil {
			return pos + m.Start, true
		}
		if asciiLen == len(window) {
			return 0, false
		}
		pos += asciiLen + 1
	}
	return 0, false
}
