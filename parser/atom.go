package parser

import "github.com/coregx/ecmaregex/ast"

// parseAtom = '.', '^', '$', '(' group-kind..., '[' class, '\' escape, or a
// bare source character. '*'/'+'/'?' here always mean "nothing to repeat":
// a quantifier encountered where an atom is expected has no preceding atom
// to quantify. '{', '}', ']' are tolerated as literal characters only
// under Annex B without the `u` flag; otherwise they are syntax errors.
func (p *Parser) parseAtom() (*ast.Node, error) {
	begin := p.pos
	r, ok := p.peek()
	if !ok {
		return nil, p.errorf(begin, "unexpected end of pattern")
	}

	switch r {
	case '.':
		p.advance()
		return &ast.Node{Kind: ast.KindDot, Begin: begin, End: p.pos}, nil
	case '^':
		p.advance()
		return &ast.Node{Kind: ast.KindLineBegin, Begin: begin, End: p.pos}, nil
	case '$':
		p.advance()
		return &ast.Node{Kind: ast.KindLineEnd, Begin: begin, End: p.pos}, nil
	case '(':
		p.advance()
		return p.parseGroup(begin)
	case '[':
		p.advance()
		return p.parseClass(begin)
	case '\\':
		p.advance()
		return p.parseEscape(begin)
	case '*', '+', '?':
		return nil, p.errorf(begin, "nothing to repeat")
	case '}', ']':
		if p.annexB && !p.unicode {
			p.advance()
			return p.literalChar(begin, r), nil
		}
		return nil, p.errorf(begin, "lone %q is not allowed here", string(r))
	case '{':
		if p.annexB && !p.unicode {
			p.advance()
			return p.literalChar(begin, r), nil
		}
		return nil, p.errorf(begin, "lone '{' is not allowed here")
	default:
		p.advance()
		return p.literalChar(begin, r), nil
	}
}

func (p *Parser) literalChar(begin int, r rune) *ast.Node {
	return &ast.Node{
		Kind:      ast.KindChar,
		Codepoint: r,
		Raw:       string(p.source[begin:p.pos]),
		Begin:     begin,
		End:       p.pos,
	}
}

// parseGroup parses the contents of a parenthesized group; '(' has
// already been consumed. Handles capture, non-capture, look-ahead,
// look-behind, and named capture group kinds.
func (p *Parser) parseGroup(begin int) (*ast.Node, error) {
	if r, ok := p.peek(); ok && r == '?' {
		p.advance()
		r2, ok := p.peek()
		if !ok {
			return nil, p.errorf(p.pos, "unterminated group")
		}
		switch r2 {
		case ':':
			p.advance()
			return p.finishSimpleGroup(begin, ast.KindGroup, false, false)
		case '=':
			p.advance()
			return p.finishSimpleGroup(begin, ast.KindLookAhead, false, false)
		case '!':
			p.advance()
			return p.finishSimpleGroup(begin, ast.KindLookAhead, true, false)
		case '<':
			p.advance()
			r3, ok := p.peek()
			switch {
			case ok && r3 == '=':
				p.advance()
				return p.finishSimpleGroup(begin, ast.KindLookBehind, false, true)
			case ok && r3 == '!':
				p.advance()
				return p.finishSimpleGroup(begin, ast.KindLookBehind, true, true)
			default:
				return p.parseNamedCapture(begin)
			}
		default:
			return nil, p.errorf(begin, "invalid group")
		}
	}

	index := p.captureCounter + 1
	p.captureCounter = index
	child, err := p.parseDisjunction()
	if err != nil {
		return nil, err
	}
	if !p.consume(')') {
		return nil, p.errorf(p.pos, "unterminated group")
	}
	return &ast.Node{Kind: ast.KindCapture, Index: index, Child: child, Begin: begin, End: p.pos}, nil
}

func (p *Parser) finishSimpleGroup(begin int, kind ast.Kind, negative, _lookbehind bool) (*ast.Node, error) {
	child, err := p.parseDisjunction()
	if err != nil {
		return nil, err
	}
	if !p.consume(')') {
		return nil, p.errorf(p.pos, "unterminated group")
	}
	return &ast.Node{Kind: kind, Negative: negative, Child: child, Begin: begin, End: p.pos}, nil
}

func (p *Parser) parseNamedCapture(begin int) (*ast.Node, error) {
	name, err := p.parseGroupNameBody()
	if err != nil {
		return nil, err
	}
	index := p.captureCounter + 1
	p.captureCounter = index
	child, err := p.parseDisjunction()
	if err != nil {
		return nil, err
	}
	if !p.consume(')') {
		return nil, p.errorf(p.pos, "unterminated group")
	}
	return &ast.Node{Kind: ast.KindNamedCapture, Index: index, Name: name, Child: child, Begin: begin, End: p.pos}, nil
}
