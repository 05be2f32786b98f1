package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump renders one line per instruction, operands included, mirroring the
// teacher's per-state String() (nfa.State.String(): "State(%d, ByteRange
// ['%c'-'%c'] -> %d)"). Used by Program.String.
func (p *Program) Dump() string {
	var b strings.Builder
	for i, op := range p.Ops {
		fmt.Fprintf(&b, "%4d  %s\n", i, op.dumpLine())
	}
	return b.String()
}

func (op Opcode) dumpLine() string {
	switch op.Kind {
	case OpCapBegin, OpCapEnd:
		return fmt.Sprintf("%s %d", op.Kind, op.N)
	case OpCapReset:
		return fmt.Sprintf("%s %d..%d", op.Kind, op.Lo, op.Hi)
	case OpChar:
		if op.IgnoreCase {
			return fmt.Sprintf("%s %s (i)", op.Kind, quoteRune(op.Char))
		}
		return fmt.Sprintf("%s %s", op.Kind, quoteRune(op.Char))
	case OpClass:
		kind := "class"
		if op.Invert {
			kind = "class_not"
		}
		return fmt.Sprintf("%s %d range(s)", kind, op.Set.Len())
	case OpForkCont, OpForkNext, OpJump, OpLoop:
		return fmt.Sprintf("%s +%d", op.Kind, op.Rel)
	case OpPush:
		return fmt.Sprintf("%s %d", op.Kind, op.N)
	case OpRef, OpRefBack:
		if op.IgnoreCase {
			return fmt.Sprintf("%s %d (i)", op.Kind, op.N)
		}
		return fmt.Sprintf("%s %d", op.Kind, op.N)
	case OpWordBoundary:
		if op.Invert {
			return "word_boundary_not"
		}
		return "word_boundary"
	default:
		return op.Kind.String()
	}
}

func quoteRune(r rune) string {
	return strconv.QuoteRune(r)
}
