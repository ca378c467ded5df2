package recognizer

import "time"

const idleTickInterval = 100 * time.Millisecond

// idleMonitor ends a run that has produced no speech for a while. It is fed
// once per tick with whether a non-empty result arrived since the last tick.
type idleMonitor struct {
	limit int
	quiet int
}

// newIdleMonitor returns a monitor that never fires when timeout is zero.
func newIdleMonitor(timeout time.Duration) *idleMonitor {
	return &idleMonitor{limit: int(timeout / idleTickInterval)}
}

func (m *idleMonitor) Tick(hasSpeech bool) bool {
	if m.limit <= 0 {
		return false
	}
	if hasSpeech {
		m.quiet = 0
		return false
	}
	m.quiet++
	return m.quiet >= m.limit
}
