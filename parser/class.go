package parser

import "github.com/coregx/ecmaregex/ast"

// parseClass parses a character class; '[' has already been consumed.
// ClassAtoms are either single characters/escape classes or '-'-joined
// ranges; a '-' that cannot form a range (adjacent to ']', or following a
// non-character atom) is treated as a literal.
func (p *Parser) parseClass(begin int) (*ast.Node, error) {
	invert := false
	if r, ok := p.peek(); ok && r == '^' {
		p.advance()
		invert = true
	}

	var items []*ast.Node
	for {
		r, ok := p.peek()
		if !ok {
			return nil, p.errorf(begin, "unterminated character class")
		}
		if r == ']' {
			p.advance()
			break
		}

		item, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}

		if item.Kind == ast.KindChar {
			if r2, ok := p.peek(); ok && r2 == '-' {
				save := p.pos
				p.advance()
				if r3, ok := p.peek(); ok && r3 != ']' {
					end, err := p.parseClassAtom()
					if err != nil {
						return nil, err
					}
					if end.Kind != ast.KindChar {
						if !(p.annexB && !p.unicode) {
							return nil, p.errorf(save, "invalid character class range")
						}
						// Annex B tolerance: a ClassEscape can't form a
						// range endpoint, so '-' falls back to a literal
						// dash and end is kept as its own class item
						// rather than raising a syntax error.
						items = append(items, item, &ast.Node{
							Kind: ast.KindChar, Codepoint: '-', Raw: "-",
							Begin: save, End: save + 1,
						}, end)
						continue
					}
					if end.Codepoint < item.Codepoint {
						return nil, p.errorf(item.Begin, "range out of order in character class")
					}
					items = append(items, &ast.Node{
						Kind:       ast.KindClassRange,
						RangeBegin: item,
						RangeEnd:   end,
						Begin:      item.Begin,
						End:        end.End,
					})
					continue
				}
				p.pos = save
			}
		}

		items = append(items, item)
	}

	return &ast.Node{Kind: ast.KindClass, ClassInvert: invert, Children: items, Begin: begin, End: p.pos}, nil
}

func (p *Parser) parseClassAtom() (*ast.Node, error) {
	begin := p.pos
	r, ok := p.peek()
	if !ok {
		return nil, p.errorf(begin, "unterminated character class")
	}
	if r == '\\' {
		p.advance()
		return p.parseClassEscape(begin)
	}
	p.advance()
	return p.literalChar(begin, r), nil
}
