package compiler

import (
	"github.com/coregx/ecmaregex/ast"
	"github.com/coregx/ecmaregex/unicodedata"
)

// direction threads whether the current subtree lowers for forward or
// backward traversal (flipped inside look-behind), per spec.md §4.4.
type direction int

const (
	forward direction = iota
	backward
)

func (d direction) flip() direction {
	if d == forward {
		return backward
	}
	return forward
}

type compiler struct {
	flags ast.Flags
	names map[string]int
}

// Compile lowers a parsed pattern into a Program: cap_begin 0, the
// compiled root, cap_end 0, match.
func Compile(pat *ast.Pattern) (*Program, error) {
	c := &compiler{flags: pat.Flags, names: pat.Names}
	body, _, err := c.lower(pat.Root, forward)
	if err != nil {
		return nil, err
	}

	ops := make([]Opcode, 0, len(body)+4)
	ops = append(ops, Opcode{Kind: OpCapBegin, N: 0})
	ops = append(ops, body...)
	ops = append(ops, Opcode{Kind: OpCapEnd, N: 0})
	ops = append(ops, Opcode{Kind: OpMatch})

	return &Program{
		Ops:           ops,
		NumCaps:       pat.CaptureCount + 1,
		Names:         pat.Names,
		Flags:         pat.Flags,
		MaxStackDepth: maxStackDepth(ops),
		Source:        pat.Source,
	}, nil
}

// lower compiles a single AST node, returning its opcodes and whether the
// node is guaranteed to advance pos on every successful match (the
// may-have-advanced flag of spec.md §4.4).
func (c *compiler) lower(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	switch n.Kind {
	case ast.KindDisjunction:
		return c.lowerDisjunction(n, dir)
	case ast.KindSequence:
		return c.lowerSequence(n, dir)
	case ast.KindGroup:
		return c.lower(n.Child, dir)
	case ast.KindCapture, ast.KindNamedCapture:
		return c.lowerCapture(n, dir)
	case ast.KindMany:
		return c.lowerMany(n, dir)
	case ast.KindSome:
		return c.lowerSome(n, dir)
	case ast.KindOptional:
		return c.lowerOptional(n, dir)
	case ast.KindRepeat:
		return c.lowerRepeat(n, dir)
	case ast.KindLookAhead, ast.KindLookBehind:
		return c.lowerLookAround(n, dir)
	case ast.KindChar:
		return c.lowerChar(n, dir)
	case ast.KindDot:
		return wrapConsuming(Opcode{Kind: OpAny}, dir), true, nil
	case ast.KindClass:
		return c.lowerClass(n, dir)
	case ast.KindEscapeClass:
		return c.lowerEscapeClass(n, dir)
	case ast.KindLineBegin:
		return []Opcode{{Kind: OpLineBegin}}, false, nil
	case ast.KindLineEnd:
		return []Opcode{{Kind: OpLineEnd}}, false, nil
	case ast.KindWordBoundary:
		return []Opcode{{Kind: OpWordBoundary, Invert: n.Invert}}, false, nil
	case ast.KindBackRef:
		return c.lowerBackRef(n.Index, dir), false, nil
	case ast.KindNamedBackRef:
		index, ok := c.namesLookup(n.Name)
		if !ok {
			return nil, false, &CompileError{Reason: "unresolved named back-reference " + n.Name}
		}
		return c.lowerBackRef(index, dir), false, nil
	default:
		return nil, false, &CompileError{Reason: "unsupported node kind " + n.Kind.String()}
	}
}

// namesLookup resolves a NamedBackRef's target capture index at compile
// time, using the pattern's Names map.
func (c *compiler) namesLookup(name string) (int, bool) {
	i, ok := c.names[name]
	return i, ok
}

func (c *compiler) lowerBackRef(index int, dir direction) []Opcode {
	kind := OpRef
	if dir == backward {
		kind = OpRefBack
	}
	return []Opcode{{Kind: kind, N: index, IgnoreCase: c.flags.IgnoreCase}}
}

func (c *compiler) lowerDisjunction(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	bodies := make([][]Opcode, len(n.Children))
	advances := make([]bool, len(n.Children))
	for i, alt := range n.Children {
		ops, adv, err := c.lower(alt, dir)
		if err != nil {
			return nil, false, err
		}
		bodies[i] = ops
		advances[i] = adv
	}

	result := bodies[len(bodies)-1]
	for i := len(bodies) - 2; i >= 0; i-- {
		body := bodies[i]
		block := make([]Opcode, 0, len(body)+1)
		block = append(block, body...)
		block = append(block, Opcode{Kind: OpJump, Rel: len(result)})

		combined := make([]Opcode, 0, len(block)+1+len(result))
		combined = append(combined, Opcode{Kind: OpForkCont, Rel: len(block)})
		combined = append(combined, block...)
		combined = append(combined, result...)
		result = combined
	}

	allAdvance := true
	for _, a := range advances {
		if !a {
			allAdvance = false
			break
		}
	}
	return result, allAdvance, nil
}

func (c *compiler) lowerSequence(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	children := n.Children
	if dir == backward {
		children = make([]*ast.Node, len(n.Children))
		for i, ch := range n.Children {
			children[len(n.Children)-1-i] = ch
		}
	}

	var ops []Opcode
	anyAdvance := false
	for _, child := range children {
		childOps, adv, err := c.lower(child, dir)
		if err != nil {
			return nil, false, err
		}
		ops = append(ops, childOps...)
		if adv {
			anyAdvance = true
		}
	}
	return ops, anyAdvance, nil
}

func (c *compiler) lowerCapture(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	childOps, adv, err := c.lower(n.Child, dir)
	if err != nil {
		return nil, false, err
	}
	begin := Opcode{Kind: OpCapBegin, N: n.Index}
	end := Opcode{Kind: OpCapEnd, N: n.Index}

	ops := make([]Opcode, 0, len(childOps)+2)
	if dir == backward {
		ops = append(ops, end)
		ops = append(ops, childOps...)
		ops = append(ops, begin)
	} else {
		ops = append(ops, begin)
		ops = append(ops, childOps...)
		ops = append(ops, end)
	}
	return ops, adv, nil
}

func (c *compiler) lowerOptional(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	body, _, err := c.lower(n.Child, dir)
	if err != nil {
		return nil, false, err
	}
	fork := Opcode{Kind: forkKindFor(n.NonGreedy), Rel: len(body)}
	ops := make([]Opcode, 0, len(body)+1)
	ops = append(ops, fork)
	ops = append(ops, body...)
	return ops, false, nil
}

func (c *compiler) lowerMany(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	body, bodyAdv, err := c.lower(n.Child, dir)
	if err != nil {
		return nil, false, err
	}
	loopBody := buildLoopBody(body, n.Child, !bodyAdv)
	ops := buildLoop(forkKindFor(n.NonGreedy), loopBody)
	return ops, false, nil
}

func (c *compiler) lowerSome(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	body, bodyAdv, err := c.lower(n.Child, dir)
	if err != nil {
		return nil, false, err
	}
	mandatory := append(append([]Opcode{}, capResetPrelude(n.Child)...), body...)
	loopBody := buildLoopBody(body, n.Child, !bodyAdv)
	loopOps := buildLoop(forkKindFor(n.NonGreedy), loopBody)

	ops := make([]Opcode, 0, len(mandatory)+len(loopOps))
	ops = append(ops, mandatory...)
	ops = append(ops, loopOps...)
	return ops, bodyAdv, nil
}

func (c *compiler) lowerRepeat(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	body, bodyAdv, err := c.lower(n.Child, dir)
	if err != nil {
		return nil, false, err
	}

	var ops []Opcode
	switch {
	case n.Min == 0:
		// no mandatory prefix
	case n.Min == 1:
		ops = append(ops, capResetPrelude(n.Child)...)
		ops = append(ops, body...)
	default:
		inner := append(append([]Opcode{}, capResetPrelude(n.Child)...), body...)
		ops = append(ops, buildCountedLoop(n.Min, inner)...)
	}

	switch {
	case n.Max == ast.Unbounded:
		loopBody := buildLoopBody(body, n.Child, !bodyAdv)
		ops = append(ops, buildLoop(forkKindFor(n.NonGreedy), loopBody)...)
	default:
		remaining := n.Max - n.Min
		prelude := capResetPrelude(n.Child)
		for i := 0; i < remaining; i++ {
			fork := Opcode{Kind: forkKindFor(n.NonGreedy), Rel: len(prelude) + len(body)}
			ops = append(ops, fork)
			ops = append(ops, prelude...)
			ops = append(ops, body...)
		}
	}

	return ops, n.Min >= 1 && bodyAdv, nil
}

func (c *compiler) lowerLookAround(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	childDir := dir
	if n.Kind == ast.KindLookBehind {
		childDir = dir.flip()
	}
	body, _, err := c.lower(n.Child, childDir)
	if err != nil {
		return nil, false, err
	}

	if !n.Negative {
		ops := make([]Opcode, 0, len(body)+4)
		ops = append(ops, Opcode{Kind: OpPushPos}, Opcode{Kind: OpPushProc})
		ops = append(ops, body...)
		ops = append(ops, Opcode{Kind: OpRewindProc}, Opcode{Kind: OpRestorePos})
		return ops, false, nil
	}

	inner := make([]Opcode, 0, len(body)+2)
	inner = append(inner, body...)
	inner = append(inner, Opcode{Kind: OpRewindProc}, Opcode{Kind: OpFail})

	ops := make([]Opcode, 0, len(inner)+5)
	ops = append(ops, Opcode{Kind: OpPushPos}, Opcode{Kind: OpPushProc})
	ops = append(ops, Opcode{Kind: OpForkCont, Rel: len(inner)})
	ops = append(ops, inner...)
	ops = append(ops, Opcode{Kind: OpPop}, Opcode{Kind: OpRestorePos})
	return ops, false, nil
}

func (c *compiler) lowerChar(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	cp := n.Codepoint
	if c.flags.IgnoreCase {
		cp = unicodedata.Canonicalize(cp, c.flags.Unicode)
	}
	op := Opcode{Kind: OpChar, Char: cp, IgnoreCase: c.flags.IgnoreCase}
	return wrapConsuming(op, dir), true, nil
}

func (c *compiler) lowerClass(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	set, err := classSet(n, c.flags)
	if err != nil {
		return nil, false, err
	}
	op := Opcode{Kind: OpClass, Set: set, Invert: n.ClassInvert}
	return wrapConsuming(op, dir), true, nil
}

func (c *compiler) lowerEscapeClass(n *ast.Node, dir direction) ([]Opcode, bool, error) {
	set, invert, err := resolveEscapeClass(n, c.flags)
	if err != nil {
		return nil, false, err
	}
	if c.flags.IgnoreCase {
		set = foldExpand(set, c.flags.Unicode)
	}
	op := Opcode{Kind: OpClass, Set: set, Invert: invert}
	return wrapConsuming(op, dir), true, nil
}

// wrapConsuming implements spec.md §4.4's backward-direction wrapping
// ("wrap with back … back so the position moves back by one code point
// before and after the compare"), generalized from Char (the only node the
// spec calls out by name) to every single-code-point-consuming opcode,
// since a look-behind containing '.' or a class needs the same treatment
// to scan backward correctly.
func wrapConsuming(op Opcode, dir direction) []Opcode {
	if dir == forward {
		return []Opcode{op}
	}
	return []Opcode{{Kind: OpBack}, op, {Kind: OpBack}}
}

func forkKindFor(nonGreedy bool) OpKind {
	if nonGreedy {
		return OpForkNext
	}
	return OpForkCont
}

// buildLoopBody assembles one loop-body iteration: an optional cap_reset
// prelude, the body itself, and an empty_check guard (omitted when the
// body is statically proven to advance pos).
func buildLoopBody(body []Opcode, child *ast.Node, needsEmptyCheck bool) []Opcode {
	ops := make([]Opcode, 0, len(body)+2)
	ops = append(ops, capResetPrelude(child)...)
	if needsEmptyCheck {
		ops = append(ops, Opcode{Kind: OpPushPos})
	}
	ops = append(ops, body...)
	if needsEmptyCheck {
		ops = append(ops, Opcode{Kind: OpEmptyCheck})
	}
	return ops
}

// buildLoop wraps a loop body as: fork_{cont|next} past-loop; loopBody;
// jump back-to-fork (spec.md §4.4's Many/Some lowering).
func buildLoop(forkKind OpKind, loopBody []Opcode) []Opcode {
	ops := make([]Opcode, 0, len(loopBody)+2)
	ops = append(ops, Opcode{Kind: forkKind, Rel: len(loopBody) + 1})
	ops = append(ops, loopBody...)
	ops = append(ops, Opcode{Kind: OpJump, Rel: -(len(loopBody) + 2)})
	return ops
}

// buildCountedLoop emits: push n; body; dec; loop back-to-body; pop — an
// unconditional repetition of body exactly n times, used for Repeat's
// mandatory prefix when min >= 2.
func buildCountedLoop(n int, body []Opcode) []Opcode {
	ops := make([]Opcode, 0, len(body)+3)
	ops = append(ops, Opcode{Kind: OpPush, N: n})
	ops = append(ops, body...)
	ops = append(ops, Opcode{Kind: OpDec})
	ops = append(ops, Opcode{Kind: OpLoop, Rel: -(len(body) + 2)})
	ops = append(ops, Opcode{Kind: OpPop})
	return ops
}

// capResetPrelude returns a cap_reset opcode covering the capture indices
// contained in child, or nil if child contains no captures (spec.md
// §4.5.5).
func capResetPrelude(child *ast.Node) []Opcode {
	lo, hi, ok := captureRange(child)
	if !ok {
		return nil
	}
	return []Opcode{{Kind: OpCapReset, Lo: lo, Hi: hi}}
}

// captureRange walks n's subtree and returns the inclusive-low/exclusive-
// high range of capture indices it contains.
func captureRange(n *ast.Node) (lo, hi int, ok bool) {
	hi = -1
	lo = int(^uint(0) >> 1)
	var walk func(*ast.Node)
	walk = func(x *ast.Node) {
		if x == nil {
			return
		}
		if x.Kind == ast.KindCapture || x.Kind == ast.KindNamedCapture {
			if x.Index < lo {
				lo = x.Index
			}
			if x.Index+1 > hi {
				hi = x.Index + 1
			}
		}
		walk(x.Child)
		for _, c := range x.Children {
			walk(c)
		}
	}
	walk(n)
	if hi == -1 {
		return 0, 0, false
	}
	return lo, hi, true
}
