package ast

import "testing"

func TestParseFlagsRoundTrip(t *testing.T) {
	f, err := ParseFlags("yusmig")
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	// Canonical order is always g i m s u y regardless of input order.
	if got, want := f.String(), "gimsuy"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestParseFlagsDuplicate(t *testing.T) {
	if _, err := ParseFlags("gg"); err == nil {
		t.Fatal("expected error for duplicate flag")
	}
}

func TestParseFlagsUnknown(t *testing.T) {
	if _, err := ParseFlags("z"); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestParseFlagsFields(t *testing.T) {
	f, err := ParseFlags("iu")
	if err != nil {
		t.Fatal(err)
	}
	if !f.IgnoreCase || !f.Unicode {
		t.Fatalf("got %+v", f)
	}
	if f.Global || f.Multiline || f.DotAll || f.Sticky {
		t.Fatalf("unexpected flag set: %+v", f)
	}
}
