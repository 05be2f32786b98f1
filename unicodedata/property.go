package unicodedata

import (
	"sync"
	"unicode"

	"github.com/coregx/ecmaregex/charset"
)

// scriptAlias maps the ISO 15924 short codes ECMA-262 patterns use
// (\p{Script=Hira}, \p{sc=Hira}) to the full script names the Go standard
// library indexes unicode.Scripts by. This is a curated subset of the
// scripts most commonly seen in patterns, not the full ISO 15924 registry;
// any script not listed here can still be matched by its full name
// (\p{Script=Hiragana}), which unicode.Scripts already keys on directly.
var scriptAlias = map[string]string{
	"Hira": "Hiragana",
	"Kana": "Katakana",
	"Hani": "Han",
	"Hang": "Hangul",
	"Latn": "Latin",
	"Cyrl": "Cyrillic",
	"Grek": "Greek",
	"Arab": "Arabic",
	"Hebr": "Hebrew",
	"Thai": "Thai",
	"Deva": "Devanagari",
	"Armn": "Armenian",
	"Geor": "Georgian",
	"Zyyy": "Common",
	"Zinh": "Inherited",
}

// propertyKeyAlias maps the short property-name forms ECMA-262 accepts
// (gc, sc, scx) to the canonical names used below.
var propertyKeyAlias = map[string]string{
	"gc":  "General_Category",
	"sc":  "Script",
	"scx": "Script_Extensions",
}

var (
	binaryOnce  sync.Once
	binaryTable map[string]*charset.Set

	setCache sync.Map // string -> *charset.Set, memoizes rangeTableToSet conversions
)

// LoadProperty resolves a lone \p{Name} escape: either a binary property
// (Alphabetic, White_Space, ASCII, ...) or a General_Category value used
// as a shorthand property name (\p{L}, \p{Nd}, ...), per ECMA-262's
// LoneUnicodePropertyNameOrValue grammar. Returns (nil, false) if name is
// not recognized.
func LoadProperty(name string) (*charset.Set, bool) {
	initBinaryTable()
	if s, ok := binaryTable[name]; ok {
		return s, true
	}
	if rt, ok := unicode.Categories[name]; ok {
		return cachedSet("gc:"+name, rt), true
	}
	return nil, false
}

// LoadPropertyValue resolves a \p{Property=Value} escape. property is
// canonicalized first (gc -> General_Category, sc -> Script,
// scx -> Script_Extensions); General_Category and Script are dispatched
// specifically. Script_Extensions resolves to the same set as Script for
// the given value (see scriptExtensions); code points whose extension
// list names the script but whose base Script differs are not included.
func LoadPropertyValue(property, value string) (*charset.Set, bool) {
	if canon, ok := propertyKeyAlias[property]; ok {
		property = canon
	}
	switch property {
	case "General_Category":
		if rt, ok := unicode.Categories[value]; ok {
			return cachedSet("gc:"+value, rt), true
		}
		return nil, false
	case "Script":
		return loadScript(value)
	case "Script_Extensions":
		base, ok := loadScript(value)
		if !ok {
			return nil, false
		}
		return scriptExtensions(value, base), true
	default:
		return nil, false
	}
}

func loadScript(value string) (*charset.Set, bool) {
	name := value
	if full, ok := scriptAlias[value]; ok {
		name = full
	}
	if rt, ok := unicode.Scripts[name]; ok {
		return cachedSet("sc:"+name, rt), true
	}
	return nil, false
}

// scriptExtensions returns a copy of the base Script set for the
// Script_Extensions property. The Go standard library does not ship a
// separate Script_Extensions (scx) table, so no extension data is added.
func scriptExtensions(_ string, base *charset.Set) *charset.Set {
	return base.Clone()
}

func initBinaryTable() {
	binaryOnce.Do(func() {
		binaryTable = map[string]*charset.Set{
			"Any":       anySet(),
			"ASCII":     asciiSet(),
			"Assigned":  assignedSet(),
			"Alphabetic": union(
				cachedSet("gc:L", unicode.Categories["L"]),
				cachedSet("gc:Nl", unicode.Categories["Nl"]),
				cachedSet("prop:Other_Alphabetic", unicode.Properties["Other_Alphabetic"]),
			),
			"Uppercase": union(
				cachedSet("gc:Lu", unicode.Categories["Lu"]),
				cachedSet("prop:Other_Uppercase", unicode.Properties["Other_Uppercase"]),
			),
			"Lowercase": union(
				cachedSet("gc:Ll", unicode.Categories["Ll"]),
				cachedSet("prop:Other_Lowercase", unicode.Properties["Other_Lowercase"]),
			),
			"White_Space": cachedSet("prop:White_Space", unicode.Properties["White_Space"]),
		}
		// Every other binary property Go ships is already usable as-is.
		for name, rt := range unicode.Properties {
			if _, exists := binaryTable[name]; !exists {
				binaryTable[name] = cachedSet("prop:"+name, rt)
			}
		}
	})
}

func union(sets ...*charset.Set) *charset.Set {
	out := charset.New()
	for _, s := range sets {
		out.AddSet(s)
	}
	return out
}

func anySet() *charset.Set {
	s := charset.New()
	s.Add(0, charset.MaxCodePoint)
	return s
}

func asciiSet() *charset.Set {
	s := charset.New()
	s.Add(0, 0x80)
	return s
}

func assignedSet() *charset.Set {
	s := charset.New()
	for _, rt := range unicode.Categories {
		s.AddSet(rangeTableToSet(rt))
	}
	return s
}

// cachedSet memoizes the RangeTable -> charset.Set conversion under key,
// safe for concurrent first use (sync.Map.LoadOrStore is idempotent and
// the conversion is a pure function of rt).
func cachedSet(key string, rt *unicode.RangeTable) *charset.Set {
	if rt == nil {
		return charset.New()
	}
	if v, ok := setCache.Load(key); ok {
		return v.(*charset.Set)
	}
	s := rangeTableToSet(rt)
	actual, _ := setCache.LoadOrStore(key, s)
	return actual.(*charset.Set)
}

func rangeTableToSet(rt *unicode.RangeTable) *charset.Set {
	s := charset.New()
	for _, r := range rt.R16 {
		if r.Stride == 1 {
			s.Add(rune(r.Lo), rune(r.Hi)+1)
			continue
		}
		for cp := rune(r.Lo); cp <= rune(r.Hi); cp += rune(r.Stride) {
			s.AddRune(cp)
		}
	}
	for _, r := range rt.R32 {
		if r.Stride == 1 {
			s.Add(rune(r.Lo), rune(r.Hi)+1)
			continue
		}
		for cp := rune(r.Lo); cp <= rune(r.Hi); cp += rune(r.Stride) {
			s.AddRune(cp)
		}
	}
	return s
}
