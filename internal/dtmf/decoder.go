// internal/dtmf/decoder.go
package dtmf

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/ColonelBlimp/dtmfdecoder/internal/dsp"
)

var (
	// ErrNonFiniteSample indicates a block contained NaN or Inf samples
	ErrNonFiniteSample = errors.New("block contains non-finite sample")
)

// EventCallback is called for each key event as it is emitted.
// Invoked synchronously from the processing call; must be fast and
// non-blocking.
type EventCallback func(event KeyEvent)

// DecoderConfig holds the full tuning of the decoding pipeline.
// All values should come from the application config file.
type DecoderConfig struct {
	// SampleRate is the audio sample rate in Hz (from config: sample_rate).
	// Must match the source's true rate; a mismatch silently detunes every
	// filter and cannot be detected here.
	SampleRate float64
	// BlockSize is the number of samples per detection window (from config: block_size)
	BlockSize int
	// MinEnergy is the absolute peak energy floor (from config: min_energy)
	MinEnergy float64
	// PeakRatio is the in-group peak dominance factor (from config: peak_ratio)
	PeakRatio float64
	// MaxTwist bounds low/high energy imbalance, 0 disables (from config: max_twist)
	MaxTwist float64
	// HoldBlocks is the press confirmation threshold (from config: hold_blocks)
	HoldBlocks int
	// SpacingBlocks is the minimum gap between symbols (from config: spacing_blocks)
	SpacingBlocks int
}

// Decoder is the assembled detection pipeline: filter bank, peak selection,
// keypad lookup and the debouncing state machine, run one block at a time.
// Processing is synchronous; each block is handled to completion before the
// next is accepted. Not safe for concurrent use: the caller must serialize
// submissions, one in-flight call at a time.
type Decoder struct {
	config  DecoderConfig
	bank    *dsp.Bank
	peaks   *dsp.PeakSelector
	machine *StateMachine

	// buffer holds partial capture chunks until a full block is available
	buffer []float32

	callbackPtr atomic.Pointer[EventCallback]
}

// NewDecoder creates a decoder for one decoding session. Configuration
// inconsistencies are rejected here, before any block is processed.
func NewDecoder(cfg DecoderConfig) (*Decoder, error) {
	bank, err := dsp.NewBank(dsp.BankConfig{
		SampleRate: cfg.SampleRate,
		BlockSize:  cfg.BlockSize,
	})
	if err != nil {
		return nil, err
	}

	peaks, err := dsp.NewPeakSelector(dsp.PeakConfig{
		MinEnergy: cfg.MinEnergy,
		PeakRatio: cfg.PeakRatio,
		MaxTwist:  cfg.MaxTwist,
	})
	if err != nil {
		return nil, err
	}

	machine, err := NewStateMachine(StateConfig{
		HoldBlocks:    cfg.HoldBlocks,
		SpacingBlocks: cfg.SpacingBlocks,
	})
	if err != nil {
		return nil, err
	}

	return &Decoder{
		config:  cfg,
		bank:    bank,
		peaks:   peaks,
		machine: machine,
		buffer:  make([]float32, 0, cfg.BlockSize),
	}, nil
}

// SetCallback sets the callback for key events. The callback is invoked
// synchronously from ProcessBlock/Process.
func (d *Decoder) SetCallback(cb EventCallback) {
	if cb == nil {
		d.callbackPtr.Store(nil)
	} else {
		d.callbackPtr.Store(&cb)
	}
}

// ProcessBlock runs one fixed-size block through the pipeline and returns
// the key events it produced, if any. Malformed blocks (wrong length,
// non-finite samples) are rejected without touching the session state; the
// caller decides whether to continue the session.
func (d *Decoder) ProcessBlock(block []float32) ([]KeyEvent, error) {
	if len(block) != d.config.BlockSize {
		return nil, dsp.ErrBlockLength
	}
	for _, x := range block {
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil, ErrNonFiniteSample
		}
	}

	energies, err := d.bank.Analyze(block)
	if err != nil {
		return nil, err
	}

	symbol := NoSymbol
	if pair, ok := d.peaks.Select(energies); ok {
		symbol = Resolve(pair.Low, pair.High)
	}

	events := d.machine.Advance(symbol)
	for _, event := range events {
		d.emitEvent(event)
	}
	return events, nil
}

// Process buffers arbitrarily sized sample chunks, as delivered by a capture
// callback, and runs every complete block through the pipeline. Leftover
// samples are kept for the next call. Events are delivered via the callback.
func (d *Decoder) Process(samples []float32) error {
	d.buffer = append(d.buffer, samples...)

	for len(d.buffer) >= d.config.BlockSize {
		_, err := d.ProcessBlock(d.buffer[:d.config.BlockSize])

		// Slide past the consumed block even on rejection, so one bad
		// chunk does not wedge the session.
		n := copy(d.buffer, d.buffer[d.config.BlockSize:])
		d.buffer = d.buffer[:n]

		if err != nil {
			return err
		}
	}
	return nil
}

// Held returns the currently confirmed symbol, or NoSymbol.
func (d *Decoder) Held() rune {
	return d.machine.Held()
}

// Config returns the current configuration
func (d *Decoder) Config() DecoderConfig {
	return d.config
}

// Reset discards buffered samples and returns the state machine to idle.
func (d *Decoder) Reset() {
	d.buffer = d.buffer[:0]
	d.machine.Reset()
}

// emitEvent calls the registered callback if set
func (d *Decoder) emitEvent(event KeyEvent) {
	cbPtr := d.callbackPtr.Load()
	if cbPtr != nil {
		(*cbPtr)(event)
	}
}
