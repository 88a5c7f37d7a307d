package socow

// Data returns the live elements as a writable slice of the vector's own
// storage. This is the copy-on-write checkpoint: a buffer shared with other
// vectors is privatized before the slice is handed out, so writes through
// it never surface in clones. The slice is invalidated by any later
// mutating operation. Writing through the slice bypasses the element hooks;
// use Set to replace elements with drop semantics.
func (v *Vector[T]) Data() ([]T, error) {
	return v.mutableElems()
}

// Set replaces the element at index i with x, dropping the old element. The
// value is moved into the container, not copied. The index must be within
// bounds.
func (v *Vector[T]) Set(i int, x T) error {
	assertThat(i >= 0 && i < v.count, "vector index out of bounds: %d with length %d", i, v.count)
	elems, err := v.mutableElems()
	if err != nil {
		return err
	}
	v.ops.dropAt(&elems[i])
	elems[i] = x
	return nil
}

// Push appends x to the vector, growing the storage when the sequence is at
// capacity. Growth allocates a buffer of capacity 2*cap+1 and copies the
// live elements into it through the copy hook before the old representation
// is released; a failed copy unwinds the fresh buffer, leaving the vector
// untouched and x with the caller. Within capacity, Push privatizes and
// places x at the end. Amortized O(1).
func (v *Vector[T]) Push(x T) error {
	if v.count == v.Cap() {
		return v.pushGrow(x)
	}
	if err := v.privatize(); err != nil {
		return err
	}
	if v.inline() {
		v.small[v.count] = x
	} else {
		v.buf.elems[v.count] = x
	}
	v.count++
	return nil
}

// pushGrow appends x by growing into a fresh buffer: the live elements are
// copied over (reading the current representation, without privatizing it),
// x is placed behind them, and only then is the old representation
// released.
func (v *Vector[T]) pushGrow(x T) error {
	newCap := 2*v.Cap() + 1
	cow, err := newBuffer(v.readElems(), newCap, v.ops)
	if err != nil {
		return err
	}
	cow.elems[v.count] = x
	tracer().Debugf("vector grows: len=%d, cap %d → %d", v.count, v.Cap(), newCap)
	v.releaseStorage()
	v.buf = cow
	v.mode = modeBuffer
	v.count++
	return nil
}

// Append pushes the given values in order. When a push fails, the values up
// to that point remain appended and the error is returned.
func (v *Vector[T]) Append(values ...T) error {
	for _, x := range values {
		if err := v.Push(x); err != nil {
			return err
		}
	}
	return nil
}

// Pop drops the last element. The vector must not be empty. A shared buffer
// is privatized first, so the deferred copy-on-write cost can surface here;
// a failed privatization copy leaves the vector untouched.
func (v *Vector[T]) Pop() error {
	assertThat(v.count > 0, "attempt to pop from empty vector")
	elems, err := v.mutableElems()
	if err != nil {
		return err
	}
	dropSpan(elems[v.count-1:], v.ops)
	v.count--
	return nil
}

// Reserve ensures capacity for at least n elements. It reallocates — to a
// capacity of exactly n, never more — when n exceeds the current capacity,
// and also when the buffer is shared and n exceeds the current length, so
// the guaranteed room is in a buffer the vector exclusively owns. A shared
// buffer already large enough stays shared. Reallocation re-inlines the
// vector when n fits the inline array.
func (v *Vector[T]) Reserve(n int) error {
	assertThat(n >= 0, "negative capacity requested: %d", n)
	if (!v.unique() && n > v.count) || n > v.Cap() {
		return v.reallocate(n)
	}
	return nil
}

// ShrinkToFit reallocates a buffered vector so that its capacity equals its
// length, switching to the inline representation when the elements fit it.
// Inline vectors and buffers already at length are left alone.
func (v *Vector[T]) ShrinkToFit() error {
	if !v.inline() && v.count != v.buf.capacity() {
		return v.reallocate(v.count)
	}
	return nil
}

// Clear removes all elements. Capacity and representation are preserved: an
// exclusively owned representation drops its elements in place, while a
// shared buffer is released and replaced by a fresh empty buffer of equal
// capacity. The cleared vector has nothing worth copying, so Clear never
// privatizes and never fails.
func (v *Vector[T]) Clear() {
	if v.unique() {
		dropSpan(v.readElems(), v.ops)
		v.count = 0
		return
	}
	capacity := v.buf.capacity()
	v.buf.release(v.count, v.ops)
	v.buf = emptyBuffer[T](capacity)
	v.count = 0
	tracer().Debugf("cleared shared vector into fresh buffer: cap=%d", capacity)
}

// Swap exchanges the contents of v and other, including their element
// hooks. The whole representation — count, mode, inline slots, buffer
// reference — is exchanged by plain assignment: no elements are copied or
// dropped, buffers keep their reference counts and merely change owner.
// Swap never fails. O(1) plus the fixed inline array exchange.
func (v *Vector[T]) Swap(other *Vector[T]) {
	if v == other {
		return
	}
	v.count, other.count = other.count, v.count
	v.mode, other.mode = other.mode, v.mode
	v.small, other.small = other.small, v.small
	v.buf, other.buf = other.buf, v.buf
	v.ops, other.ops = other.ops, v.ops
}

// Insert places x at index i, shifting the elements at i and above one
// position to the right. The position may equal Len(), appending. Insert
// reuses Push's growth and failure protocol: x is appended, then bubbled
// left into position by pairwise exchanges, so a failed growth copy leaves
// the vector untouched. O(n).
func (v *Vector[T]) Insert(i int, x T) error {
	assertThat(i >= 0 && i <= v.count, "insert position out of bounds: %d with length %d", i, v.count)
	if err := v.Push(x); err != nil {
		return err
	}
	elems, err := v.mutableElems() // exclusive after Push, no copying left to fail
	if err != nil {
		return err
	}
	for j := v.count - 1; j > i; j-- {
		elems[j], elems[j-1] = elems[j-1], elems[j]
	}
	return nil
}

// Erase removes the index range [first,last), shifting the tail left by
// pairwise exchanges and dropping the vacated slots at the end. The range
// must lie within the vector. Mutable access is requested before the range
// is inspected, so even an empty range privatizes a shared buffer; after
// that checkpoint Erase cannot fail.
func (v *Vector[T]) Erase(first, last int) error {
	assertThat(first >= 0 && first <= last && last <= v.count,
		"erase range out of bounds: [%d,%d) with length %d", first, last, v.count)
	elems, err := v.mutableElems()
	if err != nil {
		return err
	}
	n := last - first
	if n == 0 {
		return nil
	}
	for pos := last; pos < v.count; pos++ {
		elems[pos-n], elems[pos] = elems[pos], elems[pos-n]
	}
	dropSpan(elems[v.count-n:], v.ops)
	v.count -= n
	return nil
}

// EraseAt removes the single element at index i. The index must be within
// bounds.
func (v *Vector[T]) EraseAt(i int) error {
	assertThat(i >= 0 && i < v.count, "vector index out of bounds: %d with length %d", i, v.count)
	return v.Erase(i, i+1)
}
