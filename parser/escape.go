package parser

import "github.com/coregx/ecmaregex/ast"

// identityEscapable is the strict-mode SyntaxCharacter set: the only
// characters '\' may precede to produce a literal in strict/unicode mode.
const identityEscapable = "^$\\.*+?()[]{}|/"

// parseEscape parses a top-level (non-class) escape sequence; the leading
// '\' has already been consumed.
func (p *Parser) parseEscape(begin int) (*ast.Node, error) {
	r, ok := p.peek()
	if !ok {
		return nil, p.errorf(begin, "trailing backslash")
	}

	switch r {
	case 'b':
		p.advance()
		return &ast.Node{Kind: ast.KindWordBoundary, Invert: false, Begin: begin, End: p.pos}, nil
	case 'B':
		p.advance()
		return &ast.Node{Kind: ast.KindWordBoundary, Invert: true, Begin: begin, End: p.pos}, nil
	case 'd', 'D', 'w', 'W', 's', 'S':
		p.advance()
		return p.escapeClassNode(begin, r), nil
	case 'p', 'P':
		if p.unicode {
			p.advance()
			return p.parseUnicodePropertyEscape(begin, r == 'P')
		}
		p.advance()
		return p.literalChar(begin, r), nil
	case 'k':
		p.advance()
		return p.parseNamedBackRef(begin)
	}

	if r >= '0' && r <= '9' {
		return p.parseNumericEscape(begin, false)
	}

	return p.parseCommonEscape(begin)
}

// parseClassEscape parses an escape sequence inside a character class; the
// leading '\' has already been consumed. '\b' is a literal backspace here
// (never a word-boundary assertion), and back-references never appear.
func (p *Parser) parseClassEscape(begin int) (*ast.Node, error) {
	r, ok := p.peek()
	if !ok {
		return nil, p.errorf(begin, "trailing backslash")
	}

	switch r {
	case 'b':
		p.advance()
		return &ast.Node{Kind: ast.KindChar, Codepoint: 0x08, Raw: `\b`, Begin: begin, End: p.pos}, nil
	case '-':
		p.advance()
		return &ast.Node{Kind: ast.KindChar, Codepoint: '-', Raw: `\-`, Begin: begin, End: p.pos}, nil
	case 'd', 'D', 'w', 'W', 's', 'S':
		p.advance()
		return p.escapeClassNode(begin, r), nil
	case 'p', 'P':
		if p.unicode {
			p.advance()
			return p.parseUnicodePropertyEscape(begin, r == 'P')
		}
		p.advance()
		return p.literalChar(begin, r), nil
	}

	if r >= '0' && r <= '9' {
		return p.parseNumericEscape(begin, true)
	}

	return p.parseCommonEscape(begin)
}

func (p *Parser) escapeClassNode(begin int, r rune) *ast.Node {
	var kind ast.EscapeKind
	invert := false
	switch r {
	case 'd':
		kind = ast.EscapeDigit
	case 'D':
		kind, invert = ast.EscapeDigit, true
	case 'w':
		kind = ast.EscapeWord
	case 'W':
		kind, invert = ast.EscapeWord, true
	case 's':
		kind = ast.EscapeSpace
	case 'S':
		kind, invert = ast.EscapeSpace, true
	}
	return &ast.Node{Kind: ast.KindEscapeClass, EscapeKind: kind, Invert: invert, Begin: begin, End: p.pos}
}

// parseUnicodePropertyEscape parses the body of \p{...} / \P{...}; 'p' or
// 'P' has already been consumed.
func (p *Parser) parseUnicodePropertyEscape(begin int, negative bool) (*ast.Node, error) {
	if !p.consume('{') {
		return nil, p.errorf(p.pos, "expected '{' after \\p")
	}
	name, err := p.readUntil('}', "=")
	if err != nil {
		return nil, err
	}
	node := &ast.Node{Kind: ast.KindEscapeClass, Invert: negative, Begin: begin}
	if r, ok := p.peek(); ok && r == '=' {
		p.advance()
		value, err := p.readUntil('}', "")
		if err != nil {
			return nil, err
		}
		if !p.consume('}') {
			return nil, p.errorf(p.pos, "unterminated unicode property escape")
		}
		node.EscapeKind = ast.EscapeUnicodePropertyValue
		node.Property = name
		node.Value = value
	} else {
		if !p.consume('}') {
			return nil, p.errorf(p.pos, "unterminated unicode property escape")
		}
		node.EscapeKind = ast.EscapeUnicodeProperty
		node.Property = name
	}
	node.End = p.pos
	return node, nil
}

// readUntil reads characters up to (not including) delim or any rune in
// stopAlso, requiring at least one character and that a stop was reached
// before end of input.
func (p *Parser) readUntil(delim rune, stopAlso string) (string, error) {
	begin := p.pos
	for {
		r, ok := p.peek()
		if !ok {
			return "", p.errorf(begin, "unterminated unicode property escape")
		}
		if r == delim {
			break
		}
		stop := false
		for _, s := range stopAlso {
			if r == s {
				stop = true
			}
		}
		if stop {
			break
		}
		p.advance()
	}
	if p.pos == begin {
		return "", p.errorf(begin, "empty unicode property name")
	}
	return string(p.source[begin:p.pos]), nil
}

func (p *Parser) parseNamedBackRef(begin int) (*ast.Node, error) {
	annexBApplies := p.annexB && !p.unicode
	if r, ok := p.peek(); !ok || r != '<' {
		if len(p.names) == 0 && annexBApplies {
			return p.literalChar(begin, 'k'), nil
		}
		return nil, p.errorf(begin, "expected '<' after \\k")
	}
	if len(p.names) == 0 {
		if annexBApplies {
			return p.literalChar(begin, 'k'), nil
		}
		return nil, p.errorf(begin, "\\k is only valid with a named capture group present")
	}
	p.advance() // '<'
	name, err := p.parseGroupNameBody()
	if err != nil {
		return nil, err
	}
	if _, ok := p.names[name]; !ok {
		return nil, p.errorf(begin, "invalid named back-reference: no such group %q", name)
	}
	return &ast.Node{Kind: ast.KindNamedBackRef, Name: name, Begin: begin, End: p.pos}, nil
}

// parseNumericEscape parses a decimal back-reference, or — when it is out
// of range and Annex B applies, or inClass is true — a legacy octal
// literal (or a plain literal digit). A leading '0' is never a
// back-reference: it is always NUL or a legacy octal escape.
func (p *Parser) parseNumericEscape(begin int, inClass bool) (*ast.Node, error) {
	if r, _ := p.peek(); r == '0' {
		return p.parseLegacyOctalOrZero(begin)
	}
	if !inClass {
		save := p.pos
		n, _ := p.parseDigits()
		if n >= 1 && n <= p.totalCaptures {
			return &ast.Node{Kind: ast.KindBackRef, Index: n, Begin: begin, End: p.pos}, nil
		}
		p.pos = save
		if !(p.annexB && !p.unicode) {
			return nil, p.errorf(begin, "invalid back-reference: group %d does not exist", n)
		}
	}
	return p.parseLegacyOctalOrZero(begin)
}

// parseLegacyOctalOrZero parses \0 (NUL, not followed by a digit) or, under
// Annex B, a legacy octal escape of up to three octal digits starting at
// the current position (which must be a digit).
func (p *Parser) parseLegacyOctalOrZero(begin int) (*ast.Node, error) {
	annexBApplies := p.annexB && !p.unicode
	r, _ := p.peek()
	if r == '0' {
		save := p.pos
		p.advance()
		if next, ok := p.peek(); ok && next >= '0' && next <= '9' {
			if !annexBApplies {
				return nil, p.errorf(begin, "invalid escape: \\0 followed by a digit")
			}
			p.pos = save
			return p.parseOctalDigits(begin)
		}
		return &ast.Node{Kind: ast.KindChar, Codepoint: 0, Raw: `\0`, Begin: begin, End: p.pos}, nil
	}
	if !annexBApplies {
		return nil, p.errorf(begin, "invalid back-reference")
	}
	return p.parseOctalDigits(begin)
}

func (p *Parser) parseOctalDigits(begin int) (*ast.Node, error) {
	value := 0
	count := 0
	for count < 3 {
		r, ok := p.peek()
		if !ok || r < '0' || r > '7' {
			break
		}
		value = value*8 + int(r-'0')
		p.advance()
		count++
	}
	if count == 0 {
		r, ok := p.peek()
		if !ok || r < '0' || r > '9' {
			return nil, p.errorf(begin, "invalid octal escape")
		}
		// \8 and \9 are not octal: the digit itself is the literal.
		p.advance()
		return &ast.Node{Kind: ast.KindChar, Codepoint: r, Raw: string(p.source[begin:p.pos]), Begin: begin, End: p.pos}, nil
	}
	return &ast.Node{Kind: ast.KindChar, Codepoint: rune(value), Raw: string(p.source[begin:p.pos]), Begin: begin, End: p.pos}, nil
}

// parseCommonEscape parses the control/hex/unicode/identity escapes shared
// by top-level and in-class contexts: \t \n \v \f \r \cX \xHH \uHHHH
// \u{H...} and identity escapes.
func (p *Parser) parseCommonEscape(begin int) (*ast.Node, error) {
	r := p.advance()
	switch r {
	case 't':
		return p.charResult(begin, '\t'), nil
	case 'n':
		return p.charResult(begin, '\n'), nil
	case 'v':
		return p.charResult(begin, '\v'), nil
	case 'f':
		return p.charResult(begin, '\f'), nil
	case 'r':
		return p.charResult(begin, '\r'), nil
	case 'c':
		return p.parseControlEscape(begin)
	case 'x':
		return p.parseHexEscape(begin)
	case 'u':
		return p.parseUnicodeEscape(begin)
	}

	for _, c := range identityEscapable {
		if r == c {
			return p.charResult(begin, r), nil
		}
	}
	if p.annexB && !p.unicode {
		return p.charResult(begin, r), nil
	}
	return nil, p.errorf(begin, "invalid escape %q", string(r))
}

func (p *Parser) charResult(begin int, r rune) *ast.Node {
	return &ast.Node{Kind: ast.KindChar, Codepoint: r, Raw: string(p.source[begin:p.pos]), Begin: begin, End: p.pos}
}

func (p *Parser) parseControlEscape(begin int) (*ast.Node, error) {
	r, ok := p.peek()
	if ok && ((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
		p.advance()
		upper := r
		if upper >= 'a' {
			upper -= 'a' - 'A'
		}
		return p.charResult(begin, rune(int(upper-'A'+1)%32)), nil
	}
	if p.annexB && !p.unicode {
		return p.charResult(begin, 'c'), nil
	}
	return nil, p.errorf(begin, "invalid control escape")
}

func (p *Parser) parseHexEscape(begin int) (*ast.Node, error) {
	save := p.pos
	v, ok := p.parseFixedHex(2)
	if !ok {
		p.pos = save
		if p.annexB && !p.unicode {
			return p.charResult(begin, 'x'), nil
		}
		return nil, p.errorf(begin, "invalid hex escape")
	}
	return p.charResult(begin, rune(v)), nil
}

// parseUnicodeEscape parses the body of \u (the 'u' itself already
// consumed), used outside of capture-group names.
func (p *Parser) parseUnicodeEscape(begin int) (*ast.Node, error) {
	save := p.pos
	v, err := p.parseUnicodeEscapeValueAt(begin)
	if err != nil {
		if p.annexB && !p.unicode {
			p.pos = save
			return p.charResult(begin, 'u'), nil
		}
		return nil, err
	}
	return &ast.Node{Kind: ast.KindChar, Codepoint: v, Raw: string(p.source[begin:p.pos]), Begin: begin, End: p.pos}, nil
}

// parseUnicodeEscapeValue is the name-parsing entry point: it never falls
// back to a literal 'u', since a malformed \u inside a capture group name
// is always a syntax error.
func (p *Parser) parseUnicodeEscapeValue() (rune, error) {
	return p.parseUnicodeEscapeValueAt(p.pos)
}

func (p *Parser) parseUnicodeEscapeValueAt(begin int) (rune, error) {
	if r, ok := p.peek(); ok && r == '{' && p.unicode {
		p.advance()
		value := 0
		digits := 0
		for {
			r, ok := p.peek()
			if !ok || !isHexDigit(r) {
				break
			}
			value = value*16 + hexValue(r)
			p.advance()
			digits++
			if value > 0x10FFFF {
				return 0, p.errorf(begin, "unicode code point escape value out of range")
			}
		}
		if digits == 0 {
			return 0, p.errorf(begin, "invalid unicode code point escape")
		}
		if !p.consume('}') {
			return 0, p.errorf(begin, "unterminated unicode code point escape")
		}
		return rune(value), nil
	}

	v, ok := p.parseFixedHex(4)
	if !ok {
		return 0, p.errorf(begin, "invalid unicode escape")
	}
	r := rune(v)
	if p.unicode && isHighSurrogate(r) {
		save := p.pos
		if r2, ok := p.peek(); ok && r2 == '\\' {
			p.advance()
			if r3, ok := p.peek(); ok && r3 == 'u' {
				p.advance()
				lowStart := p.pos
				v2, ok := p.parseFixedHex(4)
				if ok && isLowSurrogate(rune(v2)) {
					return combineSurrogates(r, rune(v2)), nil
				}
				p.pos = lowStart
			}
		}
		p.pos = save
	}
	return r, nil
}

func (p *Parser) parseFixedHex(n int) (int, bool) {
	save := p.pos
	value := 0
	for i := 0; i < n; i++ {
		r, ok := p.peek()
		if !ok || !isHexDigit(r) {
			p.pos = save
			return 0, false
		}
		value = value*16 + hexValue(r)
		p.advance()
	}
	return value, true
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hexValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	default:
		return int(r-'A') + 10
	}
}

func isHighSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDBFF }
func isLowSurrogate(r rune) bool  { return r >= 0xDC00 && r <= 0xDFFF }

func combineSurrogates(high, low rune) rune {
	return (high-0xD800)*0x400 + (low - 0xDC00) + 0x10000
}
