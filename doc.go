/*
Package socow implements a small-object copy-on-write vector: a sequence
container with the contract of a dynamic array and two storage strategies
underneath, switched transparently by element count.

Short sequences (up to InlineCapacity elements) are stored inline in the
Vector struct itself, without any heap allocation. Longer sequences move to
a reference-counted heap buffer. Cloning a buffered vector is O(1): both
vectors share the buffer until one of them mutates, at which point the
mutating vector first privatizes the buffer by copying it (copy-on-write).
Reading never copies.

Mutating operations that duplicate elements internally report element copy
failures as errors and leave the vector in its previous, fully usable state.
Violating an operation's precondition (indexing out of bounds, popping from
an empty vector) panics.

Vectors are plain mutable containers with manual lifetime management, not
persistent values: use Clone and Assign to copy, Destroy to give up a
vector's share of the storage. They are not safe for concurrent use, not
even for concurrent reads of two vectors sharing a buffer, since reference
counts are unsynchronized.
*/
package socow

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'socow.vector'.
func tracer() tracing.Trace {
	return tracing.Select("socow.vector")
}
