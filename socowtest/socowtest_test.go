package socowtest

import (
	"errors"
	"testing"
)

func TestCensusCountsLifecycle(t *testing.T) {
	c := NewCensus()
	a := c.Make(1)
	b := c.Make(2)
	if c.Live() != 2 {
		t.Errorf("expected 2 live elements, have %d", c.Live())
	}
	dup, err := c.Copy(a)
	if err != nil {
		t.Fatalf("unexpected error copying: %v", err)
	}
	if dup.Value != 1 {
		t.Errorf("expected copy to carry value 1, carries %d", dup.Value)
	}
	if c.Live() != 3 || c.Copies() != 1 {
		t.Errorf("expected 3 live elements after 1 copy, have %d/%d", c.Live(), c.Copies())
	}
	c.Drop(&a)
	c.Drop(&b)
	c.Drop(&dup)
	if c.Live() != 0 || c.Drops() != 3 {
		t.Errorf("expected everything dropped, have live=%d drops=%d", c.Live(), c.Drops())
	}
	c.Check(t)
}

func TestCensusCopiesAreIndependent(t *testing.T) {
	c := NewCensus()
	a := c.Make(7)
	dup, err := c.Copy(a)
	if err != nil {
		t.Fatalf("unexpected error copying: %v", err)
	}
	c.Drop(&a)
	if c.Live() != 1 {
		t.Errorf("expected the copy to survive its source, live=%d", c.Live())
	}
	c.Drop(&dup)
	c.Check(t)
}

func TestCensusPanicsOnDoubleDrop(t *testing.T) {
	c := NewCensus()
	a := c.Make(1)
	b := a // aliased value, same identity
	c.Drop(&a)
	defer func() {
		if recover() == nil {
			t.Error("expected double drop to panic, didn't")
		}
	}()
	c.Drop(&b)
}

func TestCensusPanicsOnDropOfZeroElem(t *testing.T) {
	c := NewCensus()
	var dead Elem
	defer func() {
		if recover() == nil {
			t.Error("expected drop of a never-minted element to panic, didn't")
		}
	}()
	c.Drop(&dead)
}

func TestCensusPanicsOnCopyOfDead(t *testing.T) {
	c := NewCensus()
	a := c.Make(1)
	stale := a
	c.Drop(&a)
	defer func() {
		if recover() == nil {
			t.Error("expected copy of a dropped element to panic, didn't")
		}
	}()
	_, _ = c.Copy(stale)
}

func TestCensusInjectsCopyFailures(t *testing.T) {
	c := NewCensus()
	a := c.Make(1)
	c.FailCopyAfter(1)
	dup, err := c.Copy(a)
	if err != nil {
		t.Fatalf("expected the first copy to succeed, failed: %v", err)
	}
	if _, err := c.Copy(a); !errors.Is(err, ErrCopyFailed) {
		t.Errorf("expected the second copy to fail with ErrCopyFailed, is %v", err)
	}
	if _, err := c.Copy(a); !errors.Is(err, ErrCopyFailed) {
		t.Errorf("expected injection to stay armed, error is %v", err)
	}
	c.Disarm()
	dup2, err := c.Copy(a)
	if err != nil {
		t.Fatalf("expected copies to succeed after disarming, failed: %v", err)
	}
	if c.Live() != 3 {
		t.Errorf("expected failed copies to mint nothing, live=%d", c.Live())
	}
	c.Drop(&a)
	c.Drop(&dup)
	c.Drop(&dup2)
	c.Check(t)
}

func TestCensusCheckReportsLeaks(t *testing.T) {
	c := NewCensus()
	leaked := c.Make(13)
	rec := &recordingTB{TB: t}
	c.Check(rec)
	if !rec.failed {
		t.Error("expected Check to report the live element, didn't")
	}
	c.Drop(&leaked)
	c.Check(t)
}

func TestValuesExtractsPayloads(t *testing.T) {
	c := NewCensus()
	elems := []Elem{c.Make(3), c.Make(1), c.Make(4)}
	values := Values(elems)
	if len(values) != 3 || values[0] != 3 || values[1] != 1 || values[2] != 4 {
		t.Errorf("expected payloads [3 1 4], are %v", values)
	}
	for i := range elems {
		c.Drop(&elems[i])
	}
	c.Check(t)
}

// recordingTB captures Errorf calls so that Check's failure reporting can be
// tested without failing the real test.
type recordingTB struct {
	testing.TB
	failed bool
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(format string, args ...interface{}) {
	r.failed = true
}
