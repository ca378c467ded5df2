package audio

import (
	"sync"
	"time"
)

const fakeChunkFrames = 1600 // 100ms at 16kHz

// FakeContext replays a PCM buffer in real time, then keeps feeding silence.
type FakeContext struct {
	pcm      []byte
	interval time.Duration
	startErr error
}

func NewFakeContext(pcm []byte) *FakeContext {
	return &FakeContext{pcm: pcm, interval: 100 * time.Millisecond}
}

// WithInterval changes the delay between chunks.
func (f *FakeContext) WithInterval(d time.Duration) *FakeContext {
	f.interval = d
	return f
}

// FailStart makes every capture's Start return err.
func (f *FakeContext) FailStart(err error) *FakeContext {
	f.startErr = err
	return f
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake-0", Name: "fake"}}, nil
}

func (f *FakeContext) Close() {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	return &FakeCapture{pcm: f.pcm, interval: f.interval, startErr: f.startErr}, nil
}

type FakeCapture struct {
	pcm      []byte
	interval time.Duration
	startErr error

	mu      sync.Mutex
	cb      DataCallback
	stopCh  chan struct{}
	done    chan struct{}
	started int
}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) DeviceName() string { return "fake" }

// Starts reports how many times Start succeeded.
func (f *FakeCapture) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

func (f *FakeCapture) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.mu.Lock()
	f.started++
	f.stopCh = make(chan struct{})
	f.done = make(chan struct{})
	stop, done := f.stopCh, f.done
	f.mu.Unlock()

	go func() {
		defer close(done)
		chunkBytes := fakeChunkFrames * BytesPerSample
		silence := make([]byte, chunkBytes)
		pos := 0
		for {
			chunk := silence
			if pos < len(f.pcm) {
				end := min(pos+chunkBytes, len(f.pcm))
				chunk = make([]byte, end-pos)
				copy(chunk, f.pcm[pos:end])
				pos = end
			}

			f.mu.Lock()
			cb := f.cb
			f.mu.Unlock()
			if cb != nil {
				cb(chunk, uint32(len(chunk)/BytesPerSample))
			}

			select {
			case <-stop:
				return
			case <-time.After(f.interval):
			}
		}
	}()
	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	stop, done := f.stopCh, f.done
	f.stopCh = nil
	f.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (f *FakeCapture) Close() {
	f.Stop()
}
