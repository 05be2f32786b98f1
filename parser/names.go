package parser

import "unicode"

// isNameStart reports whether r may begin a capture group name: '$', '_',
// or any Unicode ID_Start code point (approximated here as a letter or a
// Unicode_Letter-like modifier, per UAX #31).
func isNameStart(r rune) bool {
	if r == '$' || r == '_' {
		return true
	}
	return unicode.In(r, unicode.L, unicode.Nl, unicode.Other_ID_Start)
}

// isNameContinue reports whether r may continue a capture group name:
// '$', the zero-width joiners U+200C/U+200D, or any ID_Continue code
// point (an ID_Start code point, plus combining marks, digits, and
// connector punctuation, per UAX #31).
func isNameContinue(r rune) bool {
	if r == '$' || r == 0x200C || r == 0x200D {
		return true
	}
	if isNameStart(r) {
		return true
	}
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

// parseGroupNameBody reads a capture group name up to and including the
// terminating '>'. Name characters may themselves be written as \uHHHH or
// \u{H...} escapes (spec.md §4.3's "Name lexical rules").
func (p *Parser) parseGroupNameBody() (string, error) {
	begin := p.pos
	var name []rune
	first := true

	for {
		r, ok := p.peek()
		if !ok {
			return "", p.errorf(p.pos, "unterminated capture group name")
		}
		if r == '>' {
			p.advance()
			break
		}

		var ch rune
		if r == '\\' {
			p.advance()
			u, ok := p.peek()
			if !ok || u != 'u' {
				return "", p.errorf(p.pos, "invalid escape in capture group name")
			}
			p.advance()
			val, err := p.parseUnicodeEscapeValue()
			if err != nil {
				return "", err
			}
			ch = val
		} else {
			p.advance()
			ch = r
		}

		if first {
			if !isNameStart(ch) {
				return "", p.errorf(begin, "invalid capture group name")
			}
			first = false
		} else if !isNameContinue(ch) {
			return "", p.errorf(begin, "invalid capture group name")
		}
		name = append(name, ch)
	}

	if len(name) == 0 {
		return "", p.errorf(begin, "empty capture group name")
	}
	return string(name), nil
}
