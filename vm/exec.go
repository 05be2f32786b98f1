package vm

import (
	"github.com/coregx/ecmaregex/compiler"
	"github.com/coregx/ecmaregex/unicodedata"
)

// Accelerator narrows the top-level scan's candidate start offsets. Proc
// consults it, when present, before each offset; a false result means no
// further offset in units[from:] can start a match. Implemented by
// internal/prefilter's Aho-Corasick literal skip-ahead; a pure accelerant
// that never changes which offset ultimately matches (spec.md §9).
type Accelerator interface {
	Next(units []uint16, from int) (int, bool)
}

// Stats reports how much work a single Scan call did. The façade
// aggregates these into its own atomic counters (spec.md §10's ambient
// Statistics concern); Proc itself holds no mutable cross-call state.
type Stats struct {
	Steps          uint64
	PrefilterSkips uint64
	PrefilterHits  uint64
}

// Result is the raw outcome of one Scan: whether a thread reached `match`,
// and if so its capture array (length 2*Program.NumCaps, -1 where unset).
// The match package turns this into a consumer-facing Match record.
type Result struct {
	Matched bool
	Start   int
	Caps    []int
}

// Proc executes one compiled Program (spec.md §4.5). A Program is
// immutable and may be shared across goroutines; Proc and its per-call
// thread list are not and must not be shared concurrently (spec.md §5).
type Proc struct {
	prog     *compiler.Program
	accel    Accelerator
	maxSteps uint64
}

// New returns a Proc bound to prog with no acceleration and no step budget.
func New(prog *compiler.Program) *Proc {
	return &Proc{prog: prog}
}

// SetAccelerator installs a literal skip-ahead accelerator. Pass nil to
// disable acceleration (the default).
func (p *Proc) SetAccelerator(a Accelerator) { p.accel = a }

// SetMaxSteps installs a step budget; 0 (the default) means unbounded.
func (p *Proc) SetMaxSteps(n uint64) { p.maxSteps = n }

// Scan performs the top-level scan of spec.md §4.5.2: try successive start
// offsets until a thread reaches `match`, the accelerator proves no further
// offset can match, or (when sticky) one offset has been tried.
func (p *Proc) Scan(units []uint16, start int) (Result, Stats, error) {
	var stats Stats
	pos := start
	for pos <= len(units) {
		tryPos := pos
		if p.accel != nil && !p.prog.Flags.Sticky {
			next, ok := p.accel.Next(units, pos)
			if !ok {
				stats.PrefilterSkips++
				break
			}
			if next > pos {
				stats.PrefilterSkips += uint64(next - pos)
			}
			stats.PrefilterHits++
			tryPos = next
			if tryPos > len(units) {
				break
			}
		}

		res, steps, err := p.run(units, tryPos)
		stats.Steps += steps
		if err != nil {
			return Result{}, stats, err
		}
		if res.Matched {
			return res, stats, nil
		}
		if p.prog.Flags.Sticky {
			break
		}
		step := 1
		if p.prog.Flags.Unicode {
			if _, size := decodeForward(units, tryPos, true); size > 0 {
				step = size
			}
		}
		pos = tryPos + step
	}
	return Result{}, stats, nil
}

// run is the inner loop of spec.md §4.5.3: repeatedly execute the current
// thread's opcode until it backtracks (discarded, fall through to the next
// pending thread) or reaches `match`.
func (p *Proc) run(units []uint16, startPos int) (Result, uint64, error) {
	prog := p.prog
	unicodeMode := prog.Flags.Unicode

	caps := make([]int, 2*prog.NumCaps)
	for i := range caps {
		caps[i] = -1
	}
	initStack := make([]int, 0, prog.MaxStackDepth)
	list := []thread{{pc: 0, pos: startPos, stack: initStack, caps: caps, id: 0}}
	nextID := 1
	var steps uint64

	for len(list) > 0 {
		cur := list[len(list)-1]
		list = list[:len(list)-1]

		for {
			if p.maxSteps > 0 && steps >= p.maxSteps {
				return Result{}, steps, &StepBudgetExceededError{Steps: steps}
			}
			steps++

			op := prog.Ops[cur.pc]
			nextPC := cur.pc + 1
			failed := false
			matched := false

			switch op.Kind {
			case compiler.OpAny:
				cp, size := decodeForward(units, cur.pos, unicodeMode)
				if size == 0 || (!prog.Flags.DotAll && isLineTerminator(cp)) {
					failed = true
					break
				}
				cur.pos += size
				cur.pc = nextPC

			case compiler.OpBack:
				_, size := decodeBackward(units, cur.pos, unicodeMode)
				if size == 0 {
					failed = true
					break
				}
				cur.pos -= size
				cur.pc = nextPC

			case compiler.OpCapBegin:
				cur.caps[2*op.N] = cur.pos
				cur.pc = nextPC

			case compiler.OpCapEnd:
				cur.caps[2*op.N+1] = cur.pos
				cur.pc = nextPC

			case compiler.OpCapReset:
				for k := op.Lo; k < op.Hi; k++ {
					cur.caps[2*k] = -1
					cur.caps[2*k+1] = -1
				}
				cur.pc = nextPC

			case compiler.OpChar:
				cp, size := decodeForward(units, cur.pos, unicodeMode)
				if size == 0 {
					failed = true
					break
				}
				if op.IgnoreCase {
					cp = unicodedata.Canonicalize(cp, unicodeMode)
				}
				if cp != op.Char {
					failed = true
					break
				}
				cur.pos += size
				cur.pc = nextPC

			case compiler.OpClass:
				cp, size := decodeForward(units, cur.pos, unicodeMode)
				if size == 0 {
					failed = true
					break
				}
				if op.Set.Has(cp) == op.Invert {
					failed = true
					break
				}
				cur.pos += size
				cur.pc = nextPC

			case compiler.OpDec:
				cur.stack[len(cur.stack)-1]--
				cur.pc = nextPC

			case compiler.OpEmptyCheck:
				saved := cur.pop()
				if saved == cur.pos {
					failed = true
					break
				}
				cur.pc = nextPC

			case compiler.OpFail:
				failed = true

			case compiler.OpForkCont:
				child := cur.clone(nextID)
				nextID++
				child.pc = nextPC + op.Rel
				list = append(list, child)
				cur.pc = nextPC

			case compiler.OpForkNext:
				child := cur.clone(nextID)
				nextID++
				child.pc = nextPC
				list = append(list, child)
				cur.pc = nextPC + op.Rel

			case compiler.OpJump:
				cur.pc = nextPC + op.Rel

			case compiler.OpLineBegin:
				ok := cur.pos == 0
				if !ok && prog.Flags.Multiline {
					prevCP, prevSize := decodeBackward(units, cur.pos, unicodeMode)
					ok = prevSize > 0 && isLineTerminator(prevCP)
				}
				if !ok {
					failed = true
					break
				}
				cur.pc = nextPC

			case compiler.OpLineEnd:
				ok := cur.pos == len(units)
				if !ok && prog.Flags.Multiline {
					nextCP, nextSize := decodeForward(units, cur.pos, unicodeMode)
					ok = nextSize > 0 && isLineTerminator(nextCP)
				}
				if !ok {
					failed = true
					break
				}
				cur.pc = nextPC

			case compiler.OpLoop:
				if cur.top() > 0 {
					cur.pc = nextPC + op.Rel
				} else {
					cur.pc = nextPC
				}

			case compiler.OpMatch:
				matched = true

			case compiler.OpPop:
				cur.pop()
				cur.pc = nextPC

			case compiler.OpPush:
				cur.push(op.N)
				cur.pc = nextPC

			case compiler.OpPushPos:
				cur.push(cur.pos)
				cur.pc = nextPC

			case compiler.OpPushProc:
				cur.push(cur.id)
				cur.pc = nextPC

			case compiler.OpRef:
				start, end := cur.caps[2*op.N], cur.caps[2*op.N+1]
				if start == -1 || end == -1 {
					cur.pc = nextPC
					break
				}
				newPos, ok := matchForward(units, cur.pos, units[start:end], unicodeMode, op.IgnoreCase)
				if !ok {
					failed = true
					break
				}
				cur.pos = newPos
				cur.pc = nextPC

			case compiler.OpRefBack:
				start, end := cur.caps[2*op.N], cur.caps[2*op.N+1]
				if start == -1 || end == -1 {
					cur.pc = nextPC
					break
				}
				newPos, ok := matchBackward(units, cur.pos, units[start:end], unicodeMode, op.IgnoreCase)
				if !ok {
					failed = true
					break
				}
				cur.pos = newPos
				cur.pc = nextPC

			case compiler.OpRestorePos:
				cur.pos = cur.pop()
				cur.pc = nextPC

			case compiler.OpRewindProc:
				snap := cur.pop()
				kept := list[:0]
				for _, th := range list {
					if th.id <= snap {
						kept = append(kept, th)
					}
				}
				list = kept
				cur.pc = nextPC

			case compiler.OpWordBoundary:
				atBoundary := wordBoundaryHere(units, cur.pos, unicodeMode)
				if atBoundary == op.Invert {
					failed = true
					break
				}
				cur.pc = nextPC
			}

			if matched {
				return Result{Matched: true, Start: startPos, Caps: cur.caps}, steps, nil
			}
			if failed {
				break
			}
		}
	}

	return Result{}, steps, nil
}
