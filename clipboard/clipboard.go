package clipboard

import (
	"errors"
	"sync"

	cb "github.com/atotto/clipboard"
)

var ErrUnsupported = errors.New("no clipboard utility available")

// System writes to the host clipboard (pbcopy, xclip/xsel/wl-copy, or the
// Windows API).
type System struct{}

func (System) Copy(text string) error {
	if cb.Unsupported {
		return ErrUnsupported
	}
	return cb.WriteAll(text)
}

func Read() (string, error) {
	return cb.ReadAll()
}

// Fake records copies in memory.
type Fake struct {
	mu     sync.Mutex
	copied []string
	err    error
}

func (f *Fake) Fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *Fake) Copy(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.copied = append(f.copied, text)
	return nil
}

// Last returns the most recent copy.
func (f *Fake) Last() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.copied) == 0 {
		return "", false
	}
	return f.copied[len(f.copied)-1], true
}

func (f *Fake) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.copied)
}
