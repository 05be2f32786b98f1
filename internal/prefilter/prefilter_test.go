package prefilter

import (
	"testing"
	"unicode/utf16"

	"github.com/coregx/ecmaregex/compiler"
	"github.com/coregx/ecmaregex/parser"
)

func mustCompile(t *testing.T, source, flags string) *compiler.Program {
	t.Helper()
	pat, err := parser.Parse(source, flags, true)
	if err != nil {
		t.Fatalf("parser.Parse(%q, %q) error: %v", source, flags, err)
	}
	prog, err := compiler.Compile(pat)
	if err != nil {
		t.Fatalf("compiler.Compile(%q) error: %v", source, err)
	}
	return prog
}

func TestExtractLiterals(t *testing.T) {
	tests := []struct {
		name   string
		source string
		flags  string
		want   []string
	}{
		{"plain literal", "abc", "", []string{"abc"}},
		{"alternation", "cat|dog|bird", "", []string{"cat", "dog", "bird"}},
		{"sticky disables", "abc", "y", nil},
		{"ignorecase disables literal", "abc", "i", nil},
		{"no literal prefix", ".*abc", "", nil},
		{"non-ascii literal", "café", "", nil},
		{"one alt lacks literal", "cat|.*", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prog := mustCompile(t, tc.source, tc.flags)
			got := ExtractLiterals(prog)
			if tc.want == nil {
				if got != nil {
					t.Fatalf("ExtractLiterals(%q) = %v, want nil", tc.source, got)
				}
				return
			}
			if len(got) != len(tc.want) {
				t.Fatalf("ExtractLiterals(%q) = %v, want %v", tc.source, got, tc.want)
			}
			for i, lit := range got {
				if string(lit) != tc.want[i] {
					t.Errorf("literal[%d] = %q, want %q", i, lit, tc.want[i])
				}
			}
		})
	}
}

func TestAcceleratorNext(t *testing.T) {
	acc, err := Build([][]byte{[]byte("cat"), []byte("dog")})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}

	tests := []struct {
		name  string
		input string
		from  int
		want  int
		ok    bool
	}{
		{"immediate hit", "cat food", 0, 0, true},
		{"hit after gap", "xx dog here", 0, 3, true},
		{"no hit at all", "nothing here", 0, 0, false},
		{"hit past non-ascii", "café dog", 0, 5, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			units := utf16.Encode([]rune(tc.input))
			gotPos, gotOK := acc.Next(units, tc.from)
			if gotOK != tc.ok {
				t.Fatalf("Next(%q, %d) ok = %v, want %v", tc.input, tc.from, gotOK, tc.ok)
			}
			if gotOK && gotPos != tc.want {
				t.Errorf("Next(%q, %d) = %d, want %d", tc.input, tc.from, gotPos, tc.want)
			}
		})
	}
}
