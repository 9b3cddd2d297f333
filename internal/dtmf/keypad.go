// internal/dtmf/keypad.go
// Package dtmf turns per-block tone decisions into discrete key events.
package dtmf

import "github.com/ColonelBlimp/dtmfdecoder/internal/dsp"

// NoSymbol is the zero value used where no keypad symbol applies.
const NoSymbol rune = 0

// keypad is the standard 4×4 DTMF matrix. Rows are the low-group tones,
// columns the high-group tones, both ascending. Immutable for the process
// lifetime; no dynamic registration.
var keypad = [4][4]rune{
	{'1', '2', '3', 'A'},
	{'4', '5', '6', 'B'},
	{'7', '8', '9', 'C'},
	{'*', '0', '#', 'D'},
}

// Symbols returns the 16 keypad symbols in row-major matrix order.
func Symbols() []rune {
	out := make([]rune, 0, 16)
	for _, row := range keypad {
		out = append(out, row[:]...)
	}
	return out
}

// Resolve looks up the keypad symbol for a (low, high) tone pair.
// Returns NoSymbol if either frequency is not a canonical DTMF tone.
// Peak selection only ever produces canonical tones, so the miss branch
// should never be taken in the assembled pipeline.
func Resolve(lowFreq, highFreq float64) rune {
	row := groupIndex(dsp.LowGroup, lowFreq)
	col := groupIndex(dsp.HighGroup, highFreq)
	if row < 0 || col < 0 {
		return NoSymbol
	}
	return keypad[row][col]
}

// Pair returns the (low, high) tone pair encoding a keypad symbol.
// The inverse of Resolve; returns false for non-keypad runes.
func Pair(symbol rune) (dsp.TonePair, bool) {
	for row := range keypad {
		for col := range keypad[row] {
			if keypad[row][col] == symbol {
				return dsp.TonePair{Low: dsp.LowGroup[row], High: dsp.HighGroup[col]}, true
			}
		}
	}
	return dsp.TonePair{}, false
}

func groupIndex(group [4]float64, freq float64) int {
	for i, f := range group {
		if f == freq {
			return i
		}
	}
	return -1
}
