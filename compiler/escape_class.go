package compiler

import (
	"github.com/coregx/ecmaregex/ast"
	"github.com/coregx/ecmaregex/charset"
	"github.com/coregx/ecmaregex/unicodedata"
)

func asciiDigitSet() *charset.Set {
	s := charset.New()
	s.Add('0', '9'+1)
	return s
}

func asciiWordSet() *charset.Set {
	s := charset.New()
	s.Add('a', 'z'+1)
	s.Add('A', 'Z'+1)
	s.Add('0', '9'+1)
	s.AddRune('_')
	return s
}

// whitespaceSet is the Unicode WhiteSpace + LineTerminator set \s resolves
// to (spec.md §4.4's EscapeClass lowering rule).
func whitespaceSet() *charset.Set {
	out := charset.New()
	if ws, ok := unicodedata.LoadProperty("White_Space"); ok {
		out.AddSet(ws)
	}
	for _, r := range []rune{'\t', '\n', '\v', '\f', '\r', 0x00A0, 0xFEFF, 0x2028, 0x2029} {
		out.AddRune(r)
	}
	return out
}

// foldExpand returns a set containing every member of s plus every
// case-folding pre-image of each member, implementing the "union with
// uncanonicalize entries when i" rule that applies to classes and
// EscapeClass sets under the ignoreCase flag.
func foldExpand(s *charset.Set, unicodeMode bool) *charset.Set {
	out := s.Clone()
	for _, r := range s.Ranges() {
		for cp := r.Begin; cp < r.End; cp++ {
			for _, f := range unicodedata.Uncanonicalize(cp, unicodeMode) {
				out.AddRune(f)
			}
		}
	}
	return out
}

// resolveEscapeClass resolves an EscapeClass node to its member set and
// the assertion polarity (n.Invert) to apply at match time.
func resolveEscapeClass(n *ast.Node, flags ast.Flags) (*charset.Set, bool, error) {
	switch n.EscapeKind {
	case ast.EscapeDigit:
		return asciiDigitSet(), n.Invert, nil
	case ast.EscapeWord:
		base := asciiWordSet()
		if flags.Unicode && flags.IgnoreCase {
			base = foldExpand(base, true)
		}
		return base, n.Invert, nil
	case ast.EscapeSpace:
		return whitespaceSet(), n.Invert, nil
	case ast.EscapeUnicodeProperty:
		set, ok := unicodedata.LoadProperty(n.Property)
		if !ok {
			return nil, false, &CompileError{Reason: "unknown unicode property " + n.Property}
		}
		return set, n.Invert, nil
	case ast.EscapeUnicodePropertyValue:
		set, ok := unicodedata.LoadPropertyValue(n.Property, n.Value)
		if !ok {
			return nil, false, &CompileError{Reason: "unknown unicode property " + n.Property + "=" + n.Value}
		}
		return set, n.Invert, nil
	default:
		return nil, false, &CompileError{Reason: "unrecognized escape class"}
	}
}

// classSet unions a Class node's items (literals, ranges, escape classes)
// into a single member set, folding in case-insensitive pre-images when
// ignoreCase is set. The class's own ClassInvert polarity is applied by
// the caller via the emitted opcode's Invert field, not baked in here.
func classSet(n *ast.Node, flags ast.Flags) (*charset.Set, error) {
	set := charset.New()
	for _, item := range n.Children {
		switch item.Kind {
		case ast.KindChar:
			set.AddRune(item.Codepoint)
		case ast.KindClassRange:
			set.Add(item.RangeBegin.Codepoint, item.RangeEnd.Codepoint+1)
		case ast.KindEscapeClass:
			s, invert, err := resolveEscapeClass(item, flags)
			if err != nil {
				return nil, err
			}
			if invert {
				complement := s.Clone()
				complement.Invert()
				set.AddSet(complement)
			} else {
				set.AddSet(s)
			}
		}
	}
	if flags.IgnoreCase {
		set = foldExpand(set, flags.Unicode)
	}
	return set, nil
}
