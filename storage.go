package socow

// refcnt is a plain, unsynchronized reference count. Vectors sharing a
// buffer must live on a single goroutine; see the package documentation.
type refcnt int32

func (rc *refcnt) init(n int32) {
	*rc = refcnt(n)
}

func (rc *refcnt) refs() int32 {
	return int32(*rc)
}

func (rc *refcnt) acquire() {
	*rc++
	assertThat(*rc > 1, "inconsistent reference count: acquired from %d", int32(*rc)-1)
}

// release decrements the count and reports whether it dropped to zero.
func (rc *refcnt) release() bool {
	*rc--
	assertThat(*rc >= 0, "inconsistent reference count: released below zero")
	return *rc == 0
}

// buffer is the heap storage of a vector beyond the inline capacity: a
// separately allocated element array with an explicit reference count.
// len(elems) is the capacity; the live prefix is tracked by each vector
// referencing the buffer, and all referencing vectors agree on it.
type buffer[T any] struct {
	elems []T
	ref   refcnt
}

// emptyBuffer allocates a buffer with the given capacity, no live elements
// and a reference count of one.
func emptyBuffer[T any](capacity int) *buffer[T] {
	b := &buffer[T]{elems: make([]T, capacity)}
	b.ref.init(1)
	return b
}

// newBuffer allocates a buffer with the given capacity and fills it with a
// copy of src, made element by element through the copy hook. When a copy
// fails, the prefix already written is dropped again in reverse order, the
// allocation is surrendered, and the hook's error is returned.
func newBuffer[T any](src []T, capacity int, op ops[T]) (*buffer[T], error) {
	assertThat(len(src) <= capacity, "buffer of capacity %d cannot hold %d elements", capacity, len(src))
	b := emptyBuffer[T](capacity)
	if err := copySpan(b.elems[:len(src)], src, op); err != nil {
		b.elems = nil
		return nil, err
	}
	return b, nil
}

func (b *buffer[T]) capacity() int {
	return len(b.elems)
}

func (b *buffer[T]) acquire() {
	b.ref.acquire()
}

// release gives up one reference to b. The last reference drops the live
// elements in reverse order and lets the allocation go.
func (b *buffer[T]) release(live int, op ops[T]) {
	if b.ref.release() {
		dropSpan(b.elems[:live], op)
		b.elems = nil
	}
}

// copySpan duplicates src into dst, element by element, through the copy
// hook. dst and src must not overlap and must have equal length. When the
// hook fails for src[i], the elements dst[0:i] already produced are dropped
// in reverse order and the hook's error is returned; dst is then all zero.
func copySpan[T any](dst, src []T, op ops[T]) error {
	assertThat(len(dst) == len(src), "copy span length mismatch: %d vs %d", len(dst), len(src))
	for i := range src {
		x, err := op.copyOf(src[i])
		if err != nil {
			dropSpan(dst[:i], op)
			return err
		}
		dst[i] = x
	}
	return nil
}

// dropSpan drops every element of s in reverse order and zeroes the slots,
// so the backing memory keeps no stale references alive.
func dropSpan[T any](s []T, op ops[T]) {
	var zero T
	for i := len(s) - 1; i >= 0; i-- {
		op.dropAt(&s[i])
		s[i] = zero
	}
}
