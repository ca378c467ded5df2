package audio

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMoveCursor(t *testing.T) {
	tests := []struct {
		name       string
		key        []byte
		cursor     int
		want       int
		wantDone   bool
		wantCancel bool
	}{
		{"down arrow", []byte{0x1b, '[', 'B'}, 0, 1, false, false},
		{"up arrow", []byte{0x1b, '[', 'A'}, 1, 0, false, false},
		{"vim down", []byte{'j'}, 1, 2, false, false},
		{"vim up", []byte{'k'}, 2, 1, false, false},
		{"clamp bottom", []byte{'j'}, 2, 2, false, false},
		{"clamp top", []byte{'k'}, 0, 0, false, false},
		{"enter", []byte{'\r'}, 1, 1, true, false},
		{"ctrl+c", []byte{3}, 1, 1, false, true},
		{"escape", []byte{0x1b}, 1, 1, false, true},
		{"other", []byte{'x'}, 1, 1, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, done, cancel := moveCursor(tt.key, tt.cursor, 3)
			if got != tt.want || done != tt.wantDone || cancel != tt.wantCancel {
				t.Errorf("moveCursor = (%d, %v, %v), want (%d, %v, %v)", got, done, cancel, tt.want, tt.wantDone, tt.wantCancel)
			}
		})
	}
}

func TestFindDevice(t *testing.T) {
	ctx := NewFakeContext(nil)

	dev, err := FindDevice(ctx, "")
	if err != nil || dev != nil {
		t.Fatalf("empty name = (%v, %v), want (nil, nil)", dev, err)
	}
	dev, err = FindDevice(ctx, "fake")
	if err != nil {
		t.Fatal(err)
	}
	if dev.ID != "fake-0" {
		t.Errorf("ID = %q, want fake-0", dev.ID)
	}
	if _, err := FindDevice(ctx, "missing"); err == nil {
		t.Error("expected error for unknown device")
	}
}

func TestFakeCaptureReplaysThenStops(t *testing.T) {
	pcm := make([]byte, fakeChunkFrames*BytesPerSample*2)
	for i := range pcm {
		pcm[i] = 1
	}
	ctx := NewFakeContext(pcm).WithInterval(time.Millisecond)
	dev, err := ctx.NewCapture(nil, DefaultCaptureConfig())
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var got int
	enough := make(chan struct{})
	var once sync.Once
	dev.SetCallback(func(data []byte, frames uint32) {
		mu.Lock()
		got += len(data)
		n := got
		mu.Unlock()
		if int(frames)*BytesPerSample != len(data) {
			t.Errorf("frames %d does not match %d bytes", frames, len(data))
		}
		if n >= len(pcm)*2 {
			once.Do(func() { close(enough) })
		}
	})
	if err := dev.Start(); err != nil {
		t.Fatal(err)
	}
	select {
	case <-enough:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audio")
	}
	dev.Stop()
	dev.Stop()

	mu.Lock()
	after := got
	mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if got != after {
		t.Errorf("callback fired after Stop: %d -> %d bytes", after, got)
	}
}

func TestFakeCaptureStartError(t *testing.T) {
	boom := errors.New("permission denied")
	dev, _ := NewFakeContext(nil).FailStart(boom).NewCapture(nil, DefaultCaptureConfig())
	if err := dev.Start(); !errors.Is(err, boom) {
		t.Errorf("Start() = %v, want %v", err, boom)
	}
}
