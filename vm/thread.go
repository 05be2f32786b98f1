package vm

// thread is one execution context per spec.md §4.5.1: a program counter, an
// input offset, an auxiliary stack (saved positions, loop counters, or
// thread-id snapshots, all representable as plain ints), and a capture
// array. Threads are value types; cloning on fork copies the stack and caps
// slices so sibling threads never alias each other's mutable state.
type thread struct {
	pc    int
	pos   int
	stack []int
	caps  []int
	id    int
}

func (t thread) clone(nextID int) thread {
	stack := make([]int, len(t.stack), cap(t.stack))
	copy(stack, t.stack)
	caps := make([]int, len(t.caps))
	copy(caps, t.caps)
	return thread{pc: t.pc, pos: t.pos, stack: stack, caps: caps, id: nextID}
}

func (t *thread) push(v int) { t.stack = append(t.stack, v) }

func (t *thread) pop() int {
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return top
}

func (t *thread) top() int { return t.stack[len(t.stack)-1] }
