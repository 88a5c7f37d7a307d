package socow

import (
	"fmt"
	"strings"
)

// storageMode tags the active representation of a vector.
type storageMode uint8

const (
	modeInline storageMode = iota // elements live in the vector's inline array
	modeBuffer                    // elements live in a reference-counted heap buffer
)

func (m storageMode) String() string {
	if m == modeInline {
		return "inline"
	}
	return "buffer"
}

// inline reports whether the inline representation is active.
func (v *Vector[T]) inline() bool {
	return v.mode == modeInline
}

// unique reports whether v owns its storage exclusively and may therefore
// mutate it in place. Inline storage always is exclusive; a heap buffer
// only at reference count one.
func (v *Vector[T]) unique() bool {
	if v.inline() {
		return true
	}
	return v.buf.ref.refs() == 1
}

// readElems returns the live elements of the active representation, for
// reading. It never privatizes.
func (v *Vector[T]) readElems() []T {
	if v.inline() {
		return v.small[:v.count]
	}
	assertThat(v.buf != nil, "inconsistency: buffered vector without a buffer")
	return v.buf.elems[:v.count]
}

// mutableElems returns the live elements for writing. This is the
// copy-on-write checkpoint: a buffer shared with other vectors is replaced
// by a private copy of equal capacity before any mutable slot is handed
// out, so writes never become visible through clones.
func (v *Vector[T]) mutableElems() ([]T, error) {
	if err := v.privatize(); err != nil {
		return nil, err
	}
	if v.inline() {
		return v.small[:v.count], nil
	}
	return v.buf.elems[:v.count], nil
}

// privatize rebinds v to an exclusively owned copy of its shared buffer.
// Capacity is preserved. A unique vector is left alone. When an element
// copy fails, v still shares the old buffer, unharmed.
func (v *Vector[T]) privatize() error {
	if v.unique() {
		return nil
	}
	tracer().Debugf("privatizing shared buffer: refs=%d, cap=%d", v.buf.ref.refs(), v.buf.capacity())
	cow, err := newBuffer(v.readElems(), v.buf.capacity(), v.ops)
	if err != nil {
		return err
	}
	v.buf.release(v.count, v.ops)
	v.buf = cow
	return nil
}

// reallocate rebuilds the representation with exactly newCap element slots,
// duplicating the live elements through the copy hook. A target at or below
// the inline capacity re-inlines the vector. The old representation is
// released only after every copy succeeded, so a failed copy leaves v
// untouched.
func (v *Vector[T]) reallocate(newCap int) error {
	assertThat(newCap >= v.count, "reallocation to capacity %d would lose elements (length %d)", newCap, v.count)
	if newCap <= InlineCapacity {
		return v.moveToInline()
	}
	cow, err := newBuffer(v.readElems(), newCap, v.ops)
	if err != nil {
		return err
	}
	tracer().Debugf("reallocated vector: len=%d, cap %d → %d", v.count, v.Cap(), newCap)
	v.releaseStorage()
	v.buf = cow
	v.mode = modeBuffer
	return nil
}

// moveToInline copies the live elements of a heap buffer back into the
// inline array and gives up the buffer reference. The inline array and the
// buffer are separate fields, so a failed copy leaves the buffered
// representation fully intact.
func (v *Vector[T]) moveToInline() error {
	assertThat(!v.inline(), "attempt to re-inline an inline vector")
	assertThat(v.count <= InlineCapacity, "%d elements do not fit the inline capacity %d", v.count, InlineCapacity)
	if err := copySpan(v.small[:v.count], v.buf.elems[:v.count], v.ops); err != nil {
		return err
	}
	tracer().Debugf("re-inlined vector: len=%d", v.count)
	v.buf.release(v.count, v.ops)
	v.buf = nil
	v.mode = modeInline
	return nil
}

// releaseStorage gives up the active representation, leaving mode and count
// stale: callers rebind or reset them. Inline elements are dropped in
// place; a buffer loses one reference and drops its elements only when v
// was the last owner.
func (v *Vector[T]) releaseStorage() {
	if v.inline() {
		dropSpan(v.small[:v.count], v.ops)
		return
	}
	v.buf.release(v.count, v.ops)
	v.buf = nil
}

func (v *Vector[T]) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	for i, x := range v.readElems() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(fmt.Sprintf("%v", x))
	}
	b.WriteByte(']')
	return b.String()
}

// --- Helpers ---------------------------------------------------------------

// noCopy makes `go vet -copylocks` flag vectors duplicated by plain
// assignment. A bitwise copy would alias a buffer without adjusting its
// reference count; Clone and Assign are the value copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("socow.vector: "+msg, msgargs...)
		panic(msg)
	}
}
