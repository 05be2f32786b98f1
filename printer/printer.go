// Package printer re-serializes a parsed pattern back to ECMA-262 source
// text (spec.md §3.8, the round-trip testable property of §8).
package printer

import (
	"strconv"
	"strings"

	"github.com/coregx/ecmaregex/ast"
)

// Print renders pat back to its "/source/flags" form.
func Print(pat *ast.Pattern) string {
	var b strings.Builder
	b.WriteByte('/')
	b.WriteString(printNode(pat.Root))
	b.WriteByte('/')
	b.WriteString(pat.Flags.String())
	return b.String()
}

// PrintPattern renders just the pattern body, with no surrounding slashes
// or flags.
func PrintPattern(root *ast.Node) string {
	return printNode(root)
}

func printNode(n *ast.Node) string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case ast.KindDisjunction:
		return printDisjunction(n)
	case ast.KindSequence:
		return printSequence(n)
	case ast.KindGroup:
		return "(?:" + printNode(n.Child) + ")"
	case ast.KindCapture:
		return "(" + printNode(n.Child) + ")"
	case ast.KindNamedCapture:
		return "(?<" + n.Name + ">" + printNode(n.Child) + ")"
	case ast.KindMany:
		return printNode(n.Child) + "*" + nonGreedySuffix(n.NonGreedy)
	case ast.KindSome:
		return printNode(n.Child) + "+" + nonGreedySuffix(n.NonGreedy)
	case ast.KindOptional:
		return printNode(n.Child) + "?" + nonGreedySuffix(n.NonGreedy)
	case ast.KindRepeat:
		return printNode(n.Child) + printRepeatBounds(n) + nonGreedySuffix(n.NonGreedy)
	case ast.KindLineBegin:
		return "^"
	case ast.KindLineEnd:
		return "$"
	case ast.KindWordBoundary:
		if n.Invert {
			return `\B`
		}
		return `\b`
	case ast.KindLookAhead:
		if n.Negative {
			return "(?!" + printNode(n.Child) + ")"
		}
		return "(?=" + printNode(n.Child) + ")"
	case ast.KindLookBehind:
		if n.Negative {
			return "(?<!" + printNode(n.Child) + ")"
		}
		return "(?<=" + printNode(n.Child) + ")"
	case ast.KindChar:
		return printChar(n)
	case ast.KindDot:
		return "."
	case ast.KindClass:
		return printClass(n)
	case ast.KindEscapeClass:
		return printEscapeClass(n)
	case ast.KindBackRef:
		return `\` + strconv.Itoa(n.Index)
	case ast.KindNamedBackRef:
		return `\k<` + n.Name + ">"
	case ast.KindClassRange:
		return printNode(n.RangeBegin) + "-" + printNode(n.RangeEnd)
	default:
		return ""
	}
}

// printDisjunction renders each alternative joined by "|". A genuine (len
// > 1) disjunction normalizes an empty alternative to "(?:)" — spec.md
// §8's documented round-trip exception — but a single-alternative
// disjunction (the common case of a group/capture body) prints its
// (possibly empty) sequence verbatim, so "()" round-trips as "()" rather
// than "((?:))".
func printDisjunction(n *ast.Node) string {
	if len(n.Children) == 0 {
		return "(?:)"
	}
	if len(n.Children) == 1 {
		return printNode(n.Children[0])
	}
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		s := printNode(c)
		if s == "" {
			s = "(?:)"
		}
		parts[i] = s
	}
	return strings.Join(parts, "|")
}

func printSequence(n *ast.Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(printNode(c))
	}
	return b.String()
}

func nonGreedySuffix(nonGreedy bool) string {
	if nonGreedy {
		return "?"
	}
	return ""
}

func printRepeatBounds(n *ast.Node) string {
	if n.Max == ast.Unbounded {
		return "{" + strconv.Itoa(n.Min) + ",}"
	}
	if n.Min == n.Max {
		return "{" + strconv.Itoa(n.Min) + "}"
	}
	return "{" + strconv.Itoa(n.Min) + "," + strconv.Itoa(n.Max) + "}"
}

// printChar prefers the original source span the parser recorded (Raw),
// falling back to escaping the code point when Raw is unavailable (e.g. a
// node built outside the parser).
func printChar(n *ast.Node) string {
	if n.Raw != "" {
		return n.Raw
	}
	return escapeLiteralRune(n.Codepoint)
}

var syntaxChars = map[rune]bool{
	'^': true, '$': true, '\\': true, '.': true, '*': true, '+': true,
	'?': true, '(': true, ')': true, '[': true, ']': true, '{': true,
	'}': true, '|': true, '/': true,
}

func escapeLiteralRune(cp rune) string {
	if syntaxChars[cp] {
		return `\` + string(cp)
	}
	return string(cp)
}

func printClass(n *ast.Node) string {
	var b strings.Builder
	b.WriteByte('[')
	if n.ClassInvert {
		b.WriteByte('^')
	}
	for _, item := range n.Children {
		b.WriteString(printClassItem(item))
	}
	b.WriteByte(']')
	return b.String()
}

func printClassItem(n *ast.Node) string {
	switch n.Kind {
	case ast.KindChar:
		if n.Raw != "" {
			return n.Raw
		}
		return escapeClassLiteralRune(n.Codepoint)
	case ast.KindClassRange:
		return printClassItem(n.RangeBegin) + "-" + printClassItem(n.RangeEnd)
	case ast.KindEscapeClass:
		return printEscapeClass(n)
	default:
		return printNode(n)
	}
}

var classSyntaxChars = map[rune]bool{
	']': true, '\\': true, '^': true, '-': true,
}

func escapeClassLiteralRune(cp rune) string {
	if classSyntaxChars[cp] {
		return `\` + string(cp)
	}
	return string(cp)
}

func printEscapeClass(n *ast.Node) string {
	switch n.EscapeKind {
	case ast.EscapeDigit:
		if n.Invert {
			return `\D`
		}
		return `\d`
	case ast.EscapeWord:
		if n.Invert {
			return `\W`
		}
		return `\w`
	case ast.EscapeSpace:
		if n.Invert {
			return `\S`
		}
		return `\s`
	case ast.EscapeUnicodeProperty:
		if n.Invert {
			return `\P{` + n.Property + "}"
		}
		return `\p{` + n.Property + "}"
	case ast.EscapeUnicodePropertyValue:
		if n.Invert {
			return `\P{` + n.Property + "=" + n.Value + "}"
		}
		return `\p{` + n.Property + "=" + n.Value + "}"
	default:
		return ""
	}
}
