package parser

import (
	"testing"

	"github.com/coregx/ecmaregex/ast"
)

func TestParseClassLiterals(t *testing.T) {
	pat := mustParse(t, "[abc]", "", false)
	cls := charAt(t, pat, 0)
	if cls.Kind != ast.KindClass || cls.ClassInvert || len(cls.Children) != 3 {
		t.Fatalf("class = %+v", cls)
	}
}

func TestParseClassNegated(t *testing.T) {
	pat := mustParse(t, "[^abc]", "", false)
	cls := charAt(t, pat, 0)
	if !cls.ClassInvert {
		t.Fatalf("class = %+v, want ClassInvert", cls)
	}
}

func TestParseClassRange(t *testing.T) {
	pat := mustParse(t, "[a-z]", "", false)
	cls := charAt(t, pat, 0)
	if len(cls.Children) != 1 || cls.Children[0].Kind != ast.KindClassRange {
		t.Fatalf("class = %+v, want a single range", cls)
	}
	r := cls.Children[0]
	if r.RangeBegin.Codepoint != 'a' || r.RangeEnd.Codepoint != 'z' {
		t.Fatalf("range = %c-%c, want a-z", r.RangeBegin.Codepoint, r.RangeEnd.Codepoint)
	}
}

func TestParseClassRangeOutOfOrderIsError(t *testing.T) {
	mustFail(t, "[z-a]", "", false)
}

func TestParseClassTrailingDashIsLiteral(t *testing.T) {
	pat := mustParse(t, "[a-]", "", false)
	cls := charAt(t, pat, 0)
	if len(cls.Children) != 2 {
		t.Fatalf("class = %+v, want 2 literal members", cls)
	}
	if cls.Children[1].Codepoint != '-' {
		t.Fatalf("second member = %+v, want literal '-'", cls.Children[1])
	}
}

func TestParseClassEscapedDash(t *testing.T) {
	pat := mustParse(t, `[a\-z]`, "", false)
	cls := charAt(t, pat, 0)
	if len(cls.Children) != 3 {
		t.Fatalf("class = %+v, want 3 literal members", cls)
	}
	if cls.Children[1].Codepoint != '-' {
		t.Fatalf("middle member = %+v, want literal '-'", cls.Children[1])
	}
}

func TestParseClassEscapeInBracketIsBackspace(t *testing.T) {
	pat := mustParse(t, `[\b]`, "", false)
	cls := charAt(t, pat, 0)
	if len(cls.Children) != 1 || cls.Children[0].Codepoint != 0x08 {
		t.Fatalf(`[\b] = %+v, want a single backspace literal`, cls)
	}
}

func TestParseClassWithEscapeClass(t *testing.T) {
	pat := mustParse(t, `[\d\s]`, "", false)
	cls := charAt(t, pat, 0)
	if len(cls.Children) != 2 {
		t.Fatalf("class = %+v, want 2 members", cls)
	}
	if cls.Children[0].Kind != ast.KindEscapeClass || cls.Children[0].EscapeKind != ast.EscapeDigit {
		t.Fatalf("first member = %+v, want \\d", cls.Children[0])
	}
	if cls.Children[1].Kind != ast.KindEscapeClass || cls.Children[1].EscapeKind != ast.EscapeSpace {
		t.Fatalf("second member = %+v, want \\s", cls.Children[1])
	}
}

func TestParseUnterminatedClassIsError(t *testing.T) {
	mustFail(t, "[abc", "", false)
}

// TestParseClassEscapeRangeEndpointStrictIsError pins spec.md §4.3: a class
// range whose endpoint is an EscapeClass is a syntax error in strict mode
// (annexB off) and under the `u` flag.
func TestParseClassEscapeRangeEndpointStrictIsError(t *testing.T) {
	mustFail(t, `[a-\d]`, "", false)
	mustFail(t, `[a-\d]`, "u", true)
}

// TestParseClassEscapeRangeEndpointAnnexBIsTolerated pins the Annex B
// carve-out: under Annex B without `u`, the same pattern does not error —
// the '-' and the escape become separate literal class items rather than a
// range.
func TestParseClassEscapeRangeEndpointAnnexBIsTolerated(t *testing.T) {
	pat := mustParse(t, `[a-\d]`, "", true)
	cls := charAt(t, pat, 0)
	if len(cls.Children) != 3 {
		t.Fatalf("class = %+v, want 3 members (a, -, \\d)", cls)
	}
	if cls.Children[0].Codepoint != 'a' {
		t.Fatalf("first member = %+v, want literal 'a'", cls.Children[0])
	}
	if cls.Children[1].Codepoint != '-' {
		t.Fatalf("second member = %+v, want literal '-'", cls.Children[1])
	}
	if cls.Children[2].Kind != ast.KindEscapeClass || cls.Children[2].EscapeKind != ast.EscapeDigit {
		t.Fatalf("third member = %+v, want \\d", cls.Children[2])
	}
}
