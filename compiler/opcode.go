// Package compiler lowers a parsed ast.Pattern into a linear Program of
// Opcodes that the vm package interprets. Mirrors the teacher's
// Kind-tagged-struct sum type (nfa.State/StateKind): a single Opcode struct
// carries a Kind byte plus only the fields that Kind uses, rather than an
// interface hierarchy.
package compiler

import (
	"fmt"

	"github.com/coregx/ecmaregex/ast"
	"github.com/coregx/ecmaregex/charset"
)

// OpKind identifies the variant of an Opcode.
type OpKind uint8

const (
	OpAny OpKind = iota
	OpBack
	OpCapBegin
	OpCapEnd
	OpCapReset
	OpChar
	OpClass // Invert distinguishes class / class_not
	OpDec
	OpEmptyCheck
	OpFail
	OpForkCont
	OpForkNext
	OpJump
	OpLineBegin
	OpLineEnd
	OpLoop
	OpMatch
	OpPop
	OpPush
	OpPushPos
	OpPushProc
	OpRef
	OpRefBack
	OpRestorePos
	OpRewindProc
	OpWordBoundary
)

func (k OpKind) String() string {
	switch k {
	case OpAny:
		return "any"
	case OpBack:
		return "back"
	case OpCapBegin:
		return "cap_begin"
	case OpCapEnd:
		return "cap_end"
	case OpCapReset:
		return "cap_reset"
	case OpChar:
		return "char"
	case OpClass:
		return "class"
	case OpDec:
		return "dec"
	case OpEmptyCheck:
		return "empty_check"
	case OpFail:
		return "fail"
	case OpForkCont:
		return "fork_cont"
	case OpForkNext:
		return "fork_next"
	case OpJump:
		return "jump"
	case OpLineBegin:
		return "line_begin"
	case OpLineEnd:
		return "line_end"
	case OpLoop:
		return "loop"
	case OpMatch:
		return "match"
	case OpPop:
		return "pop"
	case OpPush:
		return "push"
	case OpPushPos:
		return "push_pos"
	case OpPushProc:
		return "push_proc"
	case OpRef:
		return "ref"
	case OpRefBack:
		return "ref_back"
	case OpRestorePos:
		return "restore_pos"
	case OpRewindProc:
		return "rewind_proc"
	case OpWordBoundary:
		return "word_boundary"
	default:
		return fmt.Sprintf("OpKind(%d)", uint8(k))
	}
}

// Opcode is a single instruction. Only the fields relevant to Kind are
// populated; the rest are left at their zero value.
type Opcode struct {
	Kind OpKind

	// jump / fork_cont / fork_next / loop: relative pc offset
	Rel int

	// push / cap_begin / cap_end / ref / ref_back: operand index or literal
	N int

	// cap_reset: inclusive/exclusive capture index range [Lo, Hi)
	Lo, Hi int

	// char
	Char rune

	// class / class_not
	Set    *charset.Set
	Invert bool

	// word_boundary / line_begin (none carry extra fields beyond Invert)
	// char / ref / ref_back: whether to canonicalize at compare time
	// (ignoreCase); class sets already carry their case variants
	IgnoreCase bool
}

// Program is the compiled form of a pattern, the ABI between compiler and
// vm (spec's byte-code ABI).
type Program struct {
	Ops           []Opcode
	NumCaps       int // including the implicit whole-match capture (group 0)
	Names         map[string]int
	Flags         ast.Flags
	MaxStackDepth int
	Source        string
}
