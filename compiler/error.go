package compiler

import "fmt"

// CompileError reports a pattern that parsed successfully but cannot be
// lowered to a program: an unresolvable Unicode property name, or a
// back-reference to a non-existent capture group that slipped past the
// parser's own check. Mirrors the teacher's nfa.CompileError shape: a
// struct implementing Error()/Unwrap().
type CompileError struct {
	Reason string
	Err    error
}

func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compile regular expression: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("compile regular expression: %s", e.Reason)
}

func (e *CompileError) Unwrap() error { return e.Err }
