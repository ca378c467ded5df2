package hotkey

import (
	"context"
	"testing"
	"time"
)

func TestForwardCallsOnKeydown(t *testing.T) {
	hk := NewFake()
	if err := hk.Register(); err != nil {
		t.Fatal(err)
	}
	defer hk.Unregister()

	ctx, cancel := context.WithCancel(context.Background())
	presses := make(chan struct{}, 4)
	done := make(chan struct{})
	go func() {
		Forward(ctx, hk, func() { presses <- struct{}{} })
		close(done)
	}()

	hk.SimKeydown()
	hk.SimKeydown()
	for i := range 2 {
		select {
		case <-presses:
		case <-time.After(time.Second):
			t.Fatalf("press %d not forwarded", i+1)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Forward did not return after cancel")
	}
}
