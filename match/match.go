// Package match holds the consumer-facing result of a successful scan: a
// reference to the input plus the (begin, end) offset pairs the VM wrote
// into its capture array (spec.md §3.5).
package match

import "unicode/utf16"

// Match is a successful regex match with capture-group positions.
//
// A Match holds:
//   - a reference to the UTF-16 code-unit input that was searched,
//   - offsets: 2*(N+1) code-unit offsets, [begin0, end0, begin1, end1, …],
//     where group 0 is the whole match and -1 marks an unset capture,
//   - names: the pattern's capture name -> index map, shared with the
//     compiled program.
//
// Example:
//
//	m := match.New(units, []int{0, 5, 0, 5}, nil)
//	println(m.String()) // "hello"
type Match struct {
	units   []uint16
	offsets []int
	names   map[string]int
}

// New constructs a Match. offsets is stored by reference; callers must not
// mutate it afterward.
func New(units []uint16, offsets []int, names map[string]int) *Match {
	return &Match{units: units, offsets: offsets, names: names}
}

// Index returns the code-unit offset where the whole match begins.
func (m *Match) Index() int {
	return m.offsets[0]
}

// LastIndex returns the code-unit offset just past the whole match.
func (m *Match) LastIndex() int {
	return m.offsets[1]
}

// Length returns N+1: the whole match plus every capture group.
func (m *Match) Length() int {
	return len(m.offsets) / 2
}

// Start returns the begin offset of capture k (0 = whole match), or -1 if
// k is out of range or the capture did not participate in the match.
func (m *Match) Start(k int) int {
	if k < 0 || k >= m.Length() {
		return -1
	}
	return m.offsets[2*k]
}

// End returns the end offset of capture k, or -1 under the same
// conditions as Start.
func (m *Match) End(k int) int {
	if k < 0 || k >= m.Length() {
		return -1
	}
	return m.offsets[2*k+1]
}

// Get returns the text of capture k (0 = whole match) and whether it
// participated in the match.
func (m *Match) Get(k int) (string, bool) {
	s, e := m.Start(k), m.End(k)
	if s < 0 || e < 0 {
		return "", false
	}
	return m.decode(s, e), true
}

// GetNamed returns the text of the named capture group and whether it
// participated in the match. Returns ("", false) for an unknown name.
func (m *Match) GetNamed(name string) (string, bool) {
	idx, ok := m.names[name]
	if !ok {
		return "", false
	}
	return m.Get(idx)
}

// String returns the whole-match text (group 0).
func (m *Match) String() string {
	text, _ := m.Get(0)
	return text
}

// IsEmpty reports whether the whole match has zero length.
func (m *Match) IsEmpty() bool {
	return m.offsets[0] == m.offsets[1]
}

func (m *Match) decode(begin, end int) string {
	return string(utf16.Decode(m.units[begin:end]))
}

// Array is the host-language array convention of spec.md §6.1's toArray:
// [whole, cap1, …, capN] alongside index/input/groups. Unset captures are
// represented by Present[i] == false with an empty string placeholder.
type Array struct {
	Values  []string
	Present []bool
	Index   int
	Input   string
	Groups  map[string]string
}

// ToArray renders the match into the host-array shape.
func (m *Match) ToArray() Array {
	n := m.Length()
	values := make([]string, n)
	present := make([]bool, n)
	for i := 0; i < n; i++ {
		text, ok := m.Get(i)
		values[i] = text
		present[i] = ok
	}
	groups := make(map[string]string, len(m.names))
	for name, idx := range m.names {
		if text, ok := m.Get(idx); ok {
			groups[name] = text
		}
	}
	return Array{
		Values:  values,
		Present: present,
		Index:   m.Index(),
		Input:   string(utf16.Decode(m.units)),
		Groups:  groups,
	}
}
