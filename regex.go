// Package ecmaregex implements the ECMA-262 2019 regular expression
// language end to end: a two-pass recursive-descent parser, a byte-code
// compiler, and a backtracking virtual machine, wired together behind a
// small consumer-facing façade (spec.md §6.1).
//
// Basic usage:
//
//	re, err := ecmaregex.Compile(`(?<year>\d{4})-(?<month>\d{2})`, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	m, err := re.Exec("born 1984-06", 0)
//	if err == nil && m != nil {
//	    year, _ := m.GetNamed("year")
//	    println(year) // "1984"
//	}
package ecmaregex

import (
	"fmt"
	"sync/atomic"
	"unicode/utf16"

	"github.com/coregx/ecmaregex/compiler"
	"github.com/coregx/ecmaregex/internal/prefilter"
	"github.com/coregx/ecmaregex/match"
	"github.com/coregx/ecmaregex/parser"
	"github.com/coregx/ecmaregex/vm"
)

// Config controls compilation and execution behavior that spec.md leaves
// to the implementer (spec.md §5's cross-cutting step budget, §9's
// optional back-reference-free fast path), mirroring the teacher's
// Config/DefaultConfig pair (coregex's meta.Config / meta.DefaultConfig).
type Config struct {
	// AnnexB enables the "Additional ECMAScript Features for Web Browsers"
	// parser relaxations (spec.md §6.2) when the `u` flag is absent.
	// Default: true.
	AnnexB bool

	// EnablePrefilter builds an Aho-Corasick literal skip-ahead
	// accelerator (spec.md §9's permitted back-reference-free fast path)
	// when the compiled program has a provable required literal prefix.
	// Purely a performance hint: disabling it never changes which input
	// matches. Default: true.
	EnablePrefilter bool

	// MaxSteps bounds the VM's per-Exec instruction budget (spec.md §5's
	// permitted cross-cutting concern). Zero means unbounded, the
	// behavior spec.md itself requires. Default: 0.
	MaxSteps uint64
}

// DefaultConfig returns the Config used by Compile.
func DefaultConfig() Config {
	return Config{
		AnnexB:          true,
		EnablePrefilter: true,
		MaxSteps:        0,
	}
}

// Stats reports cumulative execution counters for a compiled Program.
// Observability instrumentation, not a matching-semantics concern — see
// SPEC_FULL.md §12 — mirroring the teacher's atomically-updated
// meta.Engine.Stats.
type Stats struct {
	Scans          uint64
	Matches        uint64
	PrefilterSkips uint64
	PrefilterHits  uint64
}

// Program is a compiled pattern ready to scan input (spec.md §6.1's
// "compile(source, flags) -> Program"). A Program is immutable after
// Compile/CompileWithConfig returns and is safe to share across
// goroutines; each call to Exec runs on its own private VM state.
type Program struct {
	source string
	flags  string
	prog   *compiler.Program
	accel  *prefilter.Accelerator

	maxSteps uint64

	scans          uint64
	matches        uint64
	prefilterSkips uint64
	prefilterHits  uint64
}

// Compile parses source under flags with the default Config and lowers it
// to a Program, or returns a syntax/compile error (spec.md §7).
func Compile(source string, flags string) (*Program, error) {
	return CompileWithConfig(source, flags, DefaultConfig())
}

// MustCompile is Compile but panics on error, for patterns known valid at
// init time (mirroring the teacher's coregex.MustCompile).
func MustCompile(source string, flags string) *Program {
	re, err := Compile(source, flags)
	if err != nil {
		panic("ecmaregex: Compile(" + source + "): " + err.Error())
	}
	return re
}

// CompileWithConfig is Compile with explicit Config.
func CompileWithConfig(source string, flags string, cfg Config) (*Program, error) {
	pat, err := parser.Parse(source, flags, cfg.AnnexB)
	if err != nil {
		return nil, err
	}
	prog, err := compiler.Compile(pat)
	if err != nil {
		return nil, err
	}

	p := &Program{
		source:   source,
		flags:    flags,
		prog:     prog,
		maxSteps: cfg.MaxSteps,
	}

	if cfg.EnablePrefilter {
		if literals := prefilter.ExtractLiterals(prog); literals != nil {
			if accel, err := prefilter.Build(literals); err == nil {
				p.accel = accel
			}
		}
	}

	return p, nil
}

// Exec scans input starting at the code-unit offset start and returns the
// first match at or after start, or nil if none exists (spec.md
// §4.5.2/§6.1). A pattern that matches nothing returns (nil, nil), never
// an error; an error return means the VM's step budget (if configured)
// was exhausted before an answer was reached.
func (p *Program) Exec(input string, start int) (*match.Match, error) {
	units := utf16.Encode([]rune(input))

	proc := vm.New(p.prog)
	if p.accel != nil {
		proc.SetAccelerator(p.accel)
	}
	proc.SetMaxSteps(p.maxSteps)

	res, stats, err := proc.Scan(units, start)

	atomic.AddUint64(&p.scans, 1)
	atomic.AddUint64(&p.prefilterSkips, stats.PrefilterSkips)
	atomic.AddUint64(&p.prefilterHits, stats.PrefilterHits)
	if err != nil {
		return nil, err
	}
	if !res.Matched {
		return nil, nil
	}
	atomic.AddUint64(&p.matches, 1)

	offsets := append([]int(nil), res.Caps...)
	return match.New(units, offsets, p.prog.Names), nil
}

// Global reports whether the pattern carries the `g` flag.
func (p *Program) Global() bool { return p.prog.Flags.Global }

// Sticky reports whether the pattern carries the `y` flag.
func (p *Program) Sticky() bool { return p.prog.Flags.Sticky }

// Source returns the pattern text passed to Compile.
func (p *Program) Source() string { return p.source }

// Flags returns the flag string passed to Compile.
func (p *Program) Flags() string { return p.flags }

// NumCaptures returns the number of capture groups, excluding the
// implicit whole-match group 0.
func (p *Program) NumCaptures() int { return p.prog.NumCaps - 1 }

// Stats returns a snapshot of this Program's cumulative execution
// counters.
func (p *Program) Stats() Stats {
	return Stats{
		Scans:          atomic.LoadUint64(&p.scans),
		Matches:        atomic.LoadUint64(&p.matches),
		PrefilterSkips: atomic.LoadUint64(&p.prefilterSkips),
		PrefilterHits:  atomic.LoadUint64(&p.prefilterHits),
	}
}

// ResetStats zeroes this Program's cumulative execution counters.
func (p *Program) ResetStats() {
	atomic.StoreUint64(&p.scans, 0)
	atomic.StoreUint64(&p.matches, 0)
	atomic.StoreUint64(&p.prefilterSkips, 0)
	atomic.StoreUint64(&p.prefilterHits, 0)
}

// String renders a diagnostic dump of the compiled program (spec.md
// §6.1's "Program { pattern: /…/flags, codes: <dump> }").
func (p *Program) String() string {
	return fmt.Sprintf("Program { pattern: /%s/%s, codes: <\n%s> }", p.source, p.flags, p.prog.Dump())
}
