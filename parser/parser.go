// Package parser turns a pattern string and a flag string into a validated
// ast.Pattern, or a single *SyntaxError. It implements spec.md §4.3's
// two-mode (strict ECMA-262 / Annex B "additional") recursive-descent
// grammar over Unicode code points, preceded by a linear capture/name
// preprocessing pass.
package parser

import (
	"github.com/coregx/ecmaregex/ast"
)

// Parser holds the mutable state of a single parse.
type Parser struct {
	source []rune
	pos    int

	annexB  bool
	flags   ast.Flags
	unicode bool // convenience cache of flags.Unicode

	totalCaptures int // from the preprocessing pass
	names         map[string]int

	captureCounter int // incremented as '(' / named captures are encountered
}

// Parse parses source under the given flag string. annexB enables the
// "Additional ECMAScript Features for Web Browsers" relaxations (spec.md
// §6.2) when the `u` flag is absent; it has no effect when `u` is present.
func Parse(source, flagString string, annexB bool) (*ast.Pattern, error) {
	flags, err := ast.ParseFlags(flagString)
	if err != nil {
		return nil, &SyntaxError{Source: source, Pos: 0, Reason: err.Error()}
	}

	p := &Parser{
		source:  []rune(source),
		annexB:  annexB,
		flags:   flags,
		unicode: flags.Unicode,
	}

	captureCount, names, err := p.preprocess()
	if err != nil {
		return nil, err
	}
	p.totalCaptures = captureCount
	p.names = names

	p.pos = 0
	p.captureCounter = 0
	root, err := p.parseDisjunction()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errorf(p.pos, "unmatched ')'")
	}
	if p.captureCounter != p.totalCaptures {
		// Internal invariant: the semantic pass must assign exactly the
		// capture indices the preprocessing pass predicted.
		panic("parser: capture count mismatch between preprocessing and semantic pass")
	}

	return &ast.Pattern{
		Source:       source,
		Flags:        flags,
		CaptureCount: captureCount,
		Names:        names,
		Root:         root,
	}, nil
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.source)
}

func (p *Parser) peek() (rune, bool) {
	if p.eof() {
		return 0, false
	}
	return p.source[p.pos], true
}

func (p *Parser) peekAt(offset int) (rune, bool) {
	i := p.pos + offset
	if i < 0 || i >= len(p.source) {
		return 0, false
	}
	return p.source[i], true
}

func (p *Parser) advance() rune {
	c := p.source[p.pos]
	p.pos++
	return c
}

func (p *Parser) consume(c rune) bool {
	if r, ok := p.peek(); ok && r == c {
		p.pos++
		return true
	}
	return false
}

// parseDisjunction = Sequence ( '|' Sequence )*
func (p *Parser) parseDisjunction() (*ast.Node, error) {
	begin := p.pos
	first, err := p.parseSequence()
	if err != nil {
		return nil, err
	}
	alts := []*ast.Node{first}
	for {
		if r, ok := p.peek(); !ok || r != '|' {
			break
		}
		p.advance()
		next, err := p.parseSequence()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return &ast.Node{Kind: ast.KindDisjunction, Children: alts, Begin: begin, End: p.pos}, nil
}

// parseSequence = Quantifier*, stopping at '|', ')', or end of input.
func (p *Parser) parseSequence() (*ast.Node, error) {
	begin := p.pos
	var children []*ast.Node
	for {
		r, ok := p.peek()
		if !ok || r == '|' || r == ')' {
			break
		}
		child, err := p.parseQuantifiedAtom()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return &ast.Node{Kind: ast.KindSequence, Children: children, Begin: begin, End: p.pos}, nil
}

// parseQuantifiedAtom parses a single Atom, then an optional quantifier
// suffix. An atom that is an assertion may not be quantified, except for
// the Annex B look-ahead carve-out (non-unicode mode only).
func (p *Parser) parseQuantifiedAtom() (*ast.Node, error) {
	begin := p.pos
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	q, ok := p.tryParseQuantifierSuffix()
	if !ok {
		return atom, nil
	}

	if atom.IsAssertion() {
		allowed := p.annexB && !p.unicode && atom.Kind == ast.KindLookAhead
		if !allowed {
			return nil, p.errorf(begin, "nothing to repeat")
		}
	}
	if q.max != ast.Unbounded && q.min > q.max {
		return nil, p.errorf(begin, "numbers out of order in {%d,%d} quantifier", q.min, q.max)
	}

	node := &ast.Node{Child: atom, NonGreedy: q.nonGreedy, Begin: begin, End: p.pos}
	switch {
	case q.shape == shapeStar:
		node.Kind = ast.KindMany
	case q.shape == shapePlus:
		node.Kind = ast.KindSome
	case q.shape == shapeQuestion:
		node.Kind = ast.KindOptional
	default:
		node.Kind = ast.KindRepeat
		node.Min = q.min
		node.Max = q.max
	}
	return node, nil
}

type quantShape int

const (
	shapeStar quantShape = iota
	shapePlus
	shapeQuestion
	shapeBraces
)

type quantifier struct {
	shape     quantShape
	min, max  int
	nonGreedy bool
}

// tryParseQuantifierSuffix looks at the current position for one of
// '*', '+', '?', '{m}', '{m,}', '{m,n}', each optionally followed by '?'.
// If none matches, the cursor is left unmoved and ok is false — this is
// what lets a stray '{' fall through to being parsed as a fresh atom
// (literal, under Annex B; a syntax error otherwise) by the caller.
func (p *Parser) tryParseQuantifierSuffix() (quantifier, bool) {
	save := p.pos
	r, ok := p.peek()
	if !ok {
		return quantifier{}, false
	}

	var q quantifier
	switch r {
	case '*':
		p.advance()
		q = quantifier{shape: shapeStar, min: 0, max: ast.Unbounded}
	case '+':
		p.advance()
		q = quantifier{shape: shapePlus, min: 1, max: ast.Unbounded}
	case '?':
		p.advance()
		q = quantifier{shape: shapeQuestion, min: 0, max: 1}
	case '{':
		p.advance()
		m, ok := p.parseDigits()
		if !ok {
			p.pos = save
			return quantifier{}, false
		}
		switch r2, has := p.peek(); {
		case has && r2 == '}':
			p.advance()
			q = quantifier{shape: shapeBraces, min: m, max: m}
		case has && r2 == ',':
			p.advance()
			if r3, has3 := p.peek(); has3 && r3 == '}' {
				p.advance()
				q = quantifier{shape: shapeBraces, min: m, max: ast.Unbounded}
			} else {
				n, ok := p.parseDigits()
				if !ok {
					p.pos = save
					return quantifier{}, false
				}
				if r4, has4 := p.peek(); !has4 || r4 != '}' {
					p.pos = save
					return quantifier{}, false
				}
				p.advance()
				q = quantifier{shape: shapeBraces, min: m, max: n}
			}
		default:
			p.pos = save
			return quantifier{}, false
		}
	default:
		return quantifier{}, false
	}

	if r, ok := p.peek(); ok && r == '?' {
		p.advance()
		q.nonGreedy = true
	}
	return q, true
}

func (p *Parser) parseDigits() (int, bool) {
	start := p.pos
	n := 0
	for {
		r, ok := p.peek()
		if !ok || r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		p.advance()
	}
	if p.pos == start {
		return 0, false
	}
	return n, true
}
