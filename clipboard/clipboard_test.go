package clipboard

import (
	"errors"
	"testing"
)

func TestFakeRecordsCopies(t *testing.T) {
	f := &Fake{}
	if _, ok := f.Last(); ok {
		t.Fatal("Last() on empty fake")
	}
	f.Copy("one")
	f.Copy("two")
	if got, _ := f.Last(); got != "two" {
		t.Errorf("Last() = %q, want two", got)
	}
	if f.Count() != 2 {
		t.Errorf("Count() = %d, want 2", f.Count())
	}
}

func TestFakeFailure(t *testing.T) {
	f := &Fake{}
	f.Fail(errors.New("denied"))
	if err := f.Copy("x"); err == nil {
		t.Fatal("expected error")
	}
	if f.Count() != 0 {
		t.Errorf("failed copy recorded")
	}
}
