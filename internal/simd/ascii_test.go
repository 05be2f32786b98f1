package simd

import (
	"testing"
	"unicode/utf16"
)

func TestIsASCIIUTF16_Basic(t *testing.T) {
	tests := []struct {
		name  string
		input []uint16
		want  bool
	}{
		{"empty", nil, true},
		{"single_ascii", []uint16{'a'}, true},
		{"single_del", []uint16{0x7F}, true},
		{"single_non_ascii", []uint16{0x80}, false},
		{"single_high", []uint16{0xFF01}, false},
		{"short_ascii", utf16.Encode([]rune("hello world")), true},
		{"short_non_ascii", utf16.Encode([]rune("héllo")), false},
		{"exact_batch_ascii", []uint16{'a', 'b', 'c', 'd'}, true},
		{"exact_batch_one_bad", []uint16{'a', 'b', 0x80, 'd'}, false},
		{"wide_batch_ascii", []uint16{'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h'}, true},
		{"wide_batch_tail_bad", []uint16{'a', 'b', 'c', 'd', 'e', 'f', 'g', 0x100}, false},
		{"surrogate_pair_is_non_ascii", utf16.Encode([]rune("😀")), false},
		{"long_tail", []uint16{'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i'}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsASCIIUTF16(tc.input); got != tc.want {
				t.Errorf("IsASCIIUTF16(%v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestFirstNonASCII(t *testing.T) {
	if got := FirstNonASCII([]uint16{'a', 'b', 'c'}); got != -1 {
		t.Errorf("FirstNonASCII(all ascii) = %d, want -1", got)
	}
	if got := FirstNonASCII([]uint16{'a', 0x80, 'c'}); got != 1 {
		t.Errorf("FirstNonASCII = %d, want 1", got)
	}
}
