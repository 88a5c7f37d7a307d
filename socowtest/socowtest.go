/*
Package socowtest provides instrumented elements for testing code that
stores ownership-carrying values in socow vectors.

A Census mints, copies and drops elements and tracks every live one by
identity, so double drops, drops of never-minted values and copies of dead
elements surface as panics at the faulty operation instead of as silent
corruption. Copy failures can be injected to exercise rollback paths:

	c := socowtest.NewCensus()
	v := socow.New[socowtest.Elem](c.Options()...)
	defer c.Check(t) // after v.Destroy(), every element must be dropped
	defer v.Destroy()

A census must only be used from a single goroutine, mirroring the contract
of the vectors under test.
*/
package socowtest

import (
	"errors"
	"fmt"
	"testing"

	socow "github.com/Vovkaez/socow-vector"
)

// ErrCopyFailed is returned by the Census copy hook once fault injection is
// armed; see FailCopyAfter.
var ErrCopyFailed = errors.New("socowtest: injected element copy failure")

// Elem is an instrumented element. Only Census.Make and the census copy
// hook produce live elements; the zero Elem is dead.
type Elem struct {
	Value int // payload under test
	tag   uint64
}

// Census is the factory and bookkeeper for instrumented elements.
type Census struct {
	live    map[uint64]int // tag → value
	nextTag uint64
	copies  int
	drops   int
	budget  int // successful copies left before injection strikes, -1 = unlimited
}

// NewCensus creates an empty census with fault injection disarmed.
func NewCensus() *Census {
	return &Census{
		live:   make(map[uint64]int),
		budget: -1,
	}
}

// Make mints a live element carrying the given value.
func (c *Census) Make(value int) Elem {
	c.nextTag++
	c.live[c.nextTag] = value
	return Elem{Value: value, tag: c.nextTag}
}

// Copy is the element copy hook: it mints an independent live element with
// the same value. Copying a dead element panics. With fault injection armed
// and the budget used up, Copy mints nothing and returns ErrCopyFailed.
func (c *Census) Copy(e Elem) (Elem, error) {
	if _, ok := c.live[e.tag]; !ok {
		panic(fmt.Sprintf("socowtest: copy of dead element (value %d)", e.Value))
	}
	if c.budget == 0 {
		return Elem{}, ErrCopyFailed
	}
	if c.budget > 0 {
		c.budget--
	}
	c.copies++
	return c.Make(e.Value), nil
}

// Drop is the element drop hook. Dropping an element that is not live,
// never minted or dropped before, panics.
func (c *Census) Drop(e *Elem) {
	if _, ok := c.live[e.tag]; !ok {
		panic(fmt.Sprintf("socowtest: drop of dead element (value %d)", e.Value))
	}
	delete(c.live, e.tag)
	c.drops++
	e.tag = 0
}

// FailCopyAfter arms fault injection: the next n copies succeed and every
// later one fails with ErrCopyFailed. FailCopyAfter(0) fails the very next
// copy.
func (c *Census) FailCopyAfter(n int) {
	c.budget = n
}

// Disarm switches fault injection off again.
func (c *Census) Disarm() {
	c.budget = -1
}

// Live returns the number of elements minted but not yet dropped.
func (c *Census) Live() int {
	return len(c.live)
}

// Copies returns the number of successful copies performed so far.
func (c *Census) Copies() int {
	return c.copies
}

// Drops returns the number of drops performed so far.
func (c *Census) Drops() int {
	return c.drops
}

// Options wires the census hooks into a vector constructor:
//
//	v := socow.New[socowtest.Elem](c.Options()...)
func (c *Census) Options() []socow.Option[Elem] {
	return []socow.Option[Elem]{
		socow.WithCopy(c.Copy),
		socow.WithDrop(c.Drop),
	}
}

// Check fails the test when elements are still live, i.e. minted or copied
// but never dropped. Call it after every vector under test was destroyed.
func (c *Census) Check(tb testing.TB) {
	tb.Helper()
	if len(c.live) != 0 {
		tb.Errorf("socowtest: %d element(s) leaked: %v", len(c.live), c.leakedValues())
	}
}

func (c *Census) leakedValues() []int {
	values := make([]int, 0, len(c.live))
	for _, v := range c.live {
		values = append(values, v)
	}
	return values
}

// Values extracts the payloads of elems, in order. Handy for comparing
// vector content against plain int slices.
func Values(elems []Elem) []int {
	values := make([]int, len(elems))
	for i, e := range elems {
		values[i] = e.Value
	}
	return values
}
