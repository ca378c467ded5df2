//go:build !linux

package beep

import (
	"encoding/binary"
	"sync"

	"github.com/gen2brain/malgo"
)

var playMu sync.Mutex

// playSamples opens a playback device per chime; chimes are rare and short.
func playSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}
	playMu.Lock()
	defer playMu.Unlock()

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}
	defer func() {
		ctx.Uninit()
		ctx.Free()
	}()

	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[i*2:], uint16(s))
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatS16
	cfg.Playback.Channels = 1
	cfg.SampleRate = sampleRate

	done := make(chan struct{})
	var once sync.Once
	pos := 0
	device, err := malgo.InitDevice(ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: func(out, _ []byte, _ uint32) {
			n := copy(out, data[pos:])
			pos += n
			clear(out[n:])
			if pos >= len(data) {
				once.Do(func() { close(done) })
			}
		},
	})
	if err != nil {
		return
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return
	}
	<-done
	device.Stop()
}
