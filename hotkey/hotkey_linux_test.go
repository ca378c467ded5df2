//go:build linux

package hotkey

import "testing"

func TestChordState(t *testing.T) {
	type ev struct {
		code  uint16
		value int32
	}
	tests := []struct {
		name   string
		events []ev
		fires  int
	}{
		{"ctrl shift space", []ev{{keyLCtrl, 1}, {keyLShift, 1}, {keySpace, 1}}, 1},
		{"right modifiers", []ev{{keyRCtrl, 1}, {keyRShift, 1}, {keySpace, 1}}, 1},
		{"space alone", []ev{{keySpace, 1}}, 0},
		{"missing shift", []ev{{keyLCtrl, 1}, {keySpace, 1}}, 0},
		{"autorepeat fires once", []ev{{keyLCtrl, 1}, {keyLShift, 1}, {keySpace, 1}, {keySpace, 2}, {keySpace, 2}}, 1},
		{"press twice", []ev{{keyLCtrl, 1}, {keyLShift, 1}, {keySpace, 1}, {keySpace, 0}, {keySpace, 1}}, 2},
		{"modifier released", []ev{{keyLCtrl, 1}, {keyLShift, 1}, {keyLCtrl, 0}, {keySpace, 1}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c chordState
			fires := 0
			for _, e := range tt.events {
				if c.key(e.code, e.value) {
					fires++
				}
			}
			if fires != tt.fires {
				t.Errorf("fired %d times, want %d", fires, tt.fires)
			}
		})
	}
}
