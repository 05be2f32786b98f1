package parser

import "fmt"

// SyntaxError is the single error kind the parser raises. Every violation
// of the grammar — unterminated groups, out-of-order repetition bounds,
// invalid escapes, duplicate flags, and so on — surfaces as a SyntaxError;
// the parser reports the first one it finds and stops (spec.md §4.3's
// "no recovery" policy).
type SyntaxError struct {
	Source string // the full pattern source
	Pos    int    // code-point (rune) offset into Source where the error was detected
	Reason string // short human-readable reason
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid regular expression: %s at position %d in /%s/", e.Reason, e.Pos, e.Source)
}

func (p *Parser) errorf(pos int, format string, args ...interface{}) error {
	return &SyntaxError{
		Source: string(p.source),
		Pos:    pos,
		Reason: fmt.Sprintf(format, args...),
	}
}
