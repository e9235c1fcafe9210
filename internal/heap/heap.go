// Package heap implements the process-wide, append-only array registry
// backing the interpreter's single supported "object" type: a
// one-dimensional array of 32-bit integers.
package heap

import "fmt"

// Reference is a stable handle returned by Allocate. It is the same 32-bit
// integer the interpreter pushes onto an operand stack or stores in a
// local, so the zero value doubles as an uninitialized reference that
// correct bytecode never dereferences.
type Reference = int32

// Heap is an ordered, append-only registry of owned int32 arrays. A
// Reference is the 1-based position at which the array was appended;
// growing the registry never invalidates a previously returned Reference.
//
// Heap is not safe for concurrent use. The interpreter is single-threaded
// and synchronous (spec §5), so no locking is needed.
type Heap struct {
	arrays [][]int32
}

// New returns an empty heap.
func New() *Heap {
	return &Heap{}
}

// Allocate takes ownership of arr and returns a stable reference to it. The
// caller must not mutate arr through its original slice header afterward;
// all further access should go through Get.
func (h *Heap) Allocate(arr []int32) Reference {
	h.arrays = append(h.arrays, arr)
	return Reference(len(h.arrays))
}

// Get returns the mutable backing array for ref. It panics if ref was not
// produced by this heap's Allocate, since that indicates a corrupt
// reference in the guest bytecode (a fatal condition per spec §7).
func (h *Heap) Get(ref Reference) []int32 {
	idx := int(ref) - 1
	if idx < 0 || idx >= len(h.arrays) {
		panic(fmt.Errorf("heap: invalid reference %d", ref))
	}
	return h.arrays[idx]
}

// Len reports how many arrays have been allocated. Useful for diagnostics
// and tests; the interpreter itself never needs it.
func (h *Heap) Len() int {
	return len(h.arrays)
}
