//go:build linux

package hotkey

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Reads /dev/input directly so the binding works without an X server.
// Needs membership in the input group.

const (
	evKey          = 1
	inputEventSize = 24

	keyLCtrl  = 29
	keyRCtrl  = 97
	keyLShift = 42
	keyRShift = 54
	keySpace  = 57
)

type evdevHotkey struct {
	keydown chan struct{}
	files   []*os.File
	once    sync.Once
}

func New() Hotkey {
	return &evdevHotkey{keydown: make(chan struct{}, 1)}
}

func (h *evdevHotkey) Register() error {
	paths, err := keyboardDevices()
	if err != nil {
		return fmt.Errorf("scan input devices: %w", err)
	}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		h.files = append(h.files, f)
		go h.read(f)
	}
	if len(h.files) == 0 {
		return errors.New("no readable keyboard device (add the user to the input group)")
	}
	return nil
}

func (h *evdevHotkey) read(f *os.File) {
	var chord chordState
	buf := make([]byte, inputEventSize*16)
	for {
		n, err := f.Read(buf)
		if err != nil {
			return
		}
		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			if binary.LittleEndian.Uint16(buf[i+16:]) != evKey {
				continue
			}
			code := binary.LittleEndian.Uint16(buf[i+18:])
			value := int32(binary.LittleEndian.Uint32(buf[i+20:]))
			if chord.key(code, value) {
				select {
				case h.keydown <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (h *evdevHotkey) Unregister() {
	h.once.Do(func() {
		for _, f := range h.files {
			f.Close()
		}
	})
}

func (h *evdevHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

// chordState tracks Ctrl+Shift+Space across key events. value is 1 for
// press, 0 for release and 2 for autorepeat.
type chordState struct {
	ctrl, shift, space bool
}

// key reports true on the press that completes the chord.
func (c *chordState) key(code uint16, value int32) bool {
	if value == 2 {
		return false
	}
	down := value == 1
	switch code {
	case keyLCtrl, keyRCtrl:
		c.ctrl = down
	case keyLShift, keyRShift:
		c.shift = down
	case keySpace:
		fire := down && !c.space && c.ctrl && c.shift
		c.space = down
		return fire
	}
	return false
}

func keyboardDevices() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		caps, err := os.ReadFile(filepath.Join("/sys/class/input", e.Name(), "device", "capabilities", "key"))
		if err != nil {
			continue
		}
		// Mice and buttons report a short key bitmap.
		if len(strings.TrimSpace(string(caps))) > 10 {
			out = append(out, filepath.Join("/dev/input", e.Name()))
		}
	}
	return out, nil
}
