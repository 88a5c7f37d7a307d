package socow

// InlineCapacity is the number of element slots embedded in every Vector.
// Sequences at or below this length live directly in the vector struct,
// without heap allocation.
const InlineCapacity = 4

// Vector is a mutable sequence container with small-object and
// copy-on-write storage (see the package documentation). The zero value is
// a ready-to-use empty vector with plain value semantics for its elements.
//
// Element types owning resources register copy/drop hooks at creation time:
//
//	v := socow.New[*handle](
//	    socow.WithCopy(dupHandle),
//	    socow.WithDrop(closeHandle),
//	)
//
// A Vector must not be duplicated by assignment; that would alias a shared
// buffer without adjusting its reference count (and go vet flags it). Clone
// and Assign copy vectors, Destroy ends a vector's life.
type Vector[T any] struct {
	noCopy noCopy
	count  int
	mode   storageMode
	small  [InlineCapacity]T
	buf    *buffer[T]
	ops    ops[T]
}

// ops bundles the element hooks a vector applies when duplicating or
// dropping elements internally. Zero hooks mean plain value semantics:
// copying is assignment, dropping is a no-op.
type ops[T any] struct {
	copy func(T) (T, error)
	drop func(*T)
}

func (op ops[T]) copyOf(x T) (T, error) {
	if op.copy == nil {
		return x, nil
	}
	return op.copy(x)
}

func (op ops[T]) dropAt(x *T) {
	if op.drop != nil {
		op.drop(x)
	}
}

// Option is a type to help initializing vectors at creation time.
type Option[T any] struct {
	config func(ops[T]) ops[T]
}

// WithCopy is an option to set the element copy hook, applied whenever the
// vector duplicates elements internally: cloning inline content,
// privatizing a shared buffer, reallocating. The hook may fail; the error
// travels unchanged to the caller of the triggering operation, which leaves
// the vector untouched.
//
// Use it like this:
//
//	vec := socow.New[T](socow.WithCopy(deepCopy))
func WithCopy[T any](f func(T) (T, error)) Option[T] {
	conf := func(op ops[T]) ops[T] {
		op.copy = f
		return op
	}
	return Option[T]{config: conf}
}

// WithDrop is an option to set the element drop hook, called exactly once
// for every element leaving the vector: popped, erased, cleared, destroyed
// with the last buffer reference, or rolled back after a failed copy. It
// must not fail.
func WithDrop[T any](f func(*T)) Option[T] {
	conf := func(op ops[T]) ops[T] {
		op.drop = f
		return op
	}
	return Option[T]{config: conf}
}

// New creates an empty vector. All elements live in the inline storage
// until the sequence outgrows InlineCapacity.
func New[T any](opts ...Option[T]) *Vector[T] {
	v := &Vector[T]{}
	for _, option := range opts {
		v.ops = option.config(v.ops)
	}
	return v
}

// From creates a vector holding the given values, moved into the container
// in order. When growing the storage fails on an element copy, the values
// consumed so far are dropped and the error returned, with no vector
// created.
func From[T any](values []T, opts ...Option[T]) (*Vector[T], error) {
	v := New(opts...)
	if err := v.Append(values...); err != nil {
		v.Destroy()
		return nil, err
	}
	return v, nil
}

// --- API -------------------------------------------------------------------

// Len returns the number of elements in the vector.
func (v *Vector[T]) Len() int {
	return v.count
}

// Cap returns the element capacity of the active representation:
// InlineCapacity for an inline vector, the buffer capacity otherwise.
func (v *Vector[T]) Cap() int {
	if v.inline() {
		return InlineCapacity
	}
	return v.buf.capacity()
}

// Empty reports whether the vector holds no elements.
func (v *Vector[T]) Empty() bool {
	return v.count == 0
}

// IsInline reports whether the elements currently live in the vector's
// inline storage. Intended for tests and debugging of representation
// changes.
func (v *Vector[T]) IsInline() bool {
	return v.inline()
}

// Refs returns the number of vectors sharing the active storage, 1 for an
// inline or exclusively owned representation. Intended for tests and
// debugging of copy-on-write behaviour.
func (v *Vector[T]) Refs() int {
	if v.inline() {
		return 1
	}
	return int(v.buf.ref.refs())
}

// Get returns the element at index i. Reading never privatizes a shared
// buffer. The index must be within bounds.
func (v *Vector[T]) Get(i int) T {
	assertThat(i >= 0 && i < v.count, "vector index out of bounds: %d with length %d", i, v.count)
	return v.readElems()[i]
}

// Front returns the first element. The vector must not be empty.
func (v *Vector[T]) Front() T {
	assertThat(v.count > 0, "attempt to access front of empty vector")
	return v.readElems()[0]
}

// Back returns the last element. The vector must not be empty.
func (v *Vector[T]) Back() T {
	assertThat(v.count > 0, "attempt to access back of empty vector")
	return v.readElems()[v.count-1]
}

// View returns the live elements as a slice of the active storage, for
// reading. The caller must not write through it (writes to a shared buffer
// would surface in every clone, bypassing copy-on-write) and must consider
// it invalidated by any mutating operation. Use Data for a writable slice.
func (v *Vector[T]) View() []T {
	return v.readElems()
}

// Each calls f for every element in index order, read-only.
func (v *Vector[T]) Each(f func(i int, x T)) {
	for i, x := range v.readElems() {
		f(i, x)
	}
}

// Equal reports whether v and other hold equal sequences under eq.
func (v *Vector[T]) Equal(other *Vector[T], eq func(a, b T) bool) bool {
	if v.count != other.count {
		return false
	}
	a, b := v.readElems(), other.readElems()
	for i := range a {
		if !eq(a[i], b[i]) {
			return false
		}
	}
	return true
}

// --- Lifetime --------------------------------------------------------------

// Clone returns a copy of the vector. Cloning a buffered vector is O(1) and
// allocation-free for the elements: both vectors reference the same buffer
// afterwards, and the actual copy is deferred until one of them mutates.
// Cloning an inline vector duplicates the elements through the copy hook;
// when the hook fails, the prefix copied so far is dropped in reverse order
// and no vector is created.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	cow := &Vector[T]{count: v.count, mode: v.mode, ops: v.ops}
	if v.inline() {
		if err := copySpan(cow.small[:v.count], v.small[:v.count], v.ops); err != nil {
			return nil, err
		}
		return cow, nil
	}
	v.buf.acquire()
	cow.buf = v.buf
	tracer().Debugf("cloned buffered vector: refs=%d", v.buf.ref.refs())
	return cow, nil
}

// Assign replaces the vector's content with a copy of rhs; v adopts rhs's
// element hooks along with the elements. Like Clone the copy is O(1) for a
// buffered rhs, and a failed element copy leaves v unchanged. Implemented
// as clone-and-swap; self-assignment is a no-op.
func (v *Vector[T]) Assign(rhs *Vector[T]) error {
	if v == rhs {
		return nil
	}
	cow, err := rhs.Clone()
	if err != nil {
		return err
	}
	v.Swap(cow)
	cow.Destroy()
	return nil
}

// Destroy gives up the vector's share of its storage: inline elements are
// dropped in place, a buffer reference is surrendered (dropping the
// elements only with the last reference). The vector is left empty, inline
// and usable; destroying it again is harmless.
func (v *Vector[T]) Destroy() {
	v.releaseStorage()
	v.count = 0
	v.mode = modeInline
}
