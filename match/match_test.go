package match

import (
	"testing"
	"unicode/utf16"
)

func encode(s string) []uint16 { return utf16.Encode([]rune(s)) }

func TestMatchWholeAndGroups(t *testing.T) {
	units := encode("12-34")
	m := New(units, []int{0, 5, 0, 2, 3, 5}, nil)
	if m.Index() != 0 || m.LastIndex() != 5 {
		t.Fatalf("Index/LastIndex = %d/%d, want 0/5", m.Index(), m.LastIndex())
	}
	if m.Length() != 3 {
		t.Fatalf("Length = %d, want 3", m.Length())
	}
	if m.String() != "12-34" {
		t.Fatalf("String() = %q, want 12-34", m.String())
	}
	g1, ok := m.Get(1)
	if !ok || g1 != "12" {
		t.Fatalf("Get(1) = %q, %v, want 12, true", g1, ok)
	}
	g2, ok := m.Get(2)
	if !ok || g2 != "34" {
		t.Fatalf("Get(2) = %q, %v, want 34, true", g2, ok)
	}
}

func TestMatchUnsetCapture(t *testing.T) {
	units := encode("abc")
	m := New(units, []int{0, 3, -1, -1}, nil)
	_, ok := m.Get(1)
	if ok {
		t.Fatalf("expected unset capture 1 to report ok=false")
	}
	if m.Start(1) != -1 || m.End(1) != -1 {
		t.Fatalf("Start/End for unset capture = %d/%d, want -1/-1", m.Start(1), m.End(1))
	}
}

func TestMatchGetOutOfRange(t *testing.T) {
	units := encode("abc")
	m := New(units, []int{0, 3}, nil)
	if _, ok := m.Get(5); ok {
		t.Fatalf("expected Get(5) to fail on a single-capture match")
	}
}

func TestMatchNamedCapture(t *testing.T) {
	units := encode("2026-07-31")
	names := map[string]int{"year": 1}
	m := New(units, []int{0, 10, 0, 4}, names)
	year, ok := m.GetNamed("year")
	if !ok || year != "2026" {
		t.Fatalf("GetNamed(year) = %q, %v, want 2026, true", year, ok)
	}
	if _, ok := m.GetNamed("missing"); ok {
		t.Fatalf("expected GetNamed(missing) to fail")
	}
}

func TestMatchIsEmpty(t *testing.T) {
	units := encode("abc")
	m := New(units, []int{1, 1}, nil)
	if !m.IsEmpty() {
		t.Fatalf("expected empty match")
	}
}

func TestMatchToArray(t *testing.T) {
	units := encode("12-34")
	names := map[string]int{"a": 1, "b": 2}
	m := New(units, []int{0, 5, 0, 2, 3, 5}, names)
	arr := m.ToArray()
	if len(arr.Values) != 3 || arr.Values[0] != "12-34" || arr.Values[1] != "12" || arr.Values[2] != "34" {
		t.Fatalf("Values = %v", arr.Values)
	}
	if arr.Index != 0 || arr.Input != "12-34" {
		t.Fatalf("Index/Input = %d/%q", arr.Index, arr.Input)
	}
	if arr.Groups["a"] != "12" || arr.Groups["b"] != "34" {
		t.Fatalf("Groups = %v", arr.Groups)
	}
}
