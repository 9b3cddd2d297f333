// internal/dsp/goertzel.go
// Package dsp implements the narrowband energy detection used for DTMF decoding.
package dsp

import (
	"errors"
	"math"
)

var (
	// ErrInvalidBlockSize indicates block size must be positive
	ErrInvalidBlockSize = errors.New("block size must be positive")
	// ErrInvalidSampleRate indicates sample rate must be positive
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	// ErrInvalidFrequency indicates frequency must be positive and below Nyquist
	ErrInvalidFrequency = errors.New("target frequency must be positive and less than Nyquist frequency")
	// ErrBlockLength indicates a block did not match the configured block size
	ErrBlockLength = errors.New("block length does not match configured block size")
)

// GoertzelConfig holds configuration for a single Goertzel filter.
// All values should come from the application config file.
type GoertzelConfig struct {
	// TargetFrequency is the frequency to detect in Hz
	TargetFrequency float64
	// SampleRate is the audio sample rate in Hz (from config: sample_rate)
	SampleRate float64
	// BlockSize is the number of samples per detection window (from config: block_size)
	BlockSize int
}

// Goertzel computes the energy of a sample block at one target frequency.
// The Goertzel algorithm evaluates a single DFT bin without computing a
// full spectrum, which is cheaper than an FFT when only the eight DTMF
// tones are of interest.
//
// The bin index k = TargetFrequency/SampleRate * BlockSize is deliberately
// not rounded to an integer; rounding would move the filter center away
// from the exact tone frequency and skew the eight tone energies relative
// to each other.
type Goertzel struct {
	config      GoertzelConfig
	coefficient float64 // Pre-computed: 2 * cos(2π * f / fs)
}

// NewGoertzel creates a new Goertzel filter with the given configuration.
// Returns an error if the configuration is invalid.
func NewGoertzel(cfg GoertzelConfig) (*Goertzel, error) {
	if cfg.BlockSize <= 0 {
		return nil, ErrInvalidBlockSize
	}
	if cfg.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	nyquist := cfg.SampleRate / 2.0
	if cfg.TargetFrequency <= 0 || cfg.TargetFrequency >= nyquist {
		return nil, ErrInvalidFrequency
	}

	return &Goertzel{
		config:      cfg,
		coefficient: 2.0 * math.Cos(2.0*math.Pi*cfg.TargetFrequency/cfg.SampleRate),
	}, nil
}

// Energy computes the squared-magnitude energy of the target frequency over
// the given block. Callers must keep the block length fixed for the lifetime
// of a decoding session so that energies across frequencies stay comparable;
// Energy itself iterates whatever it is given, and a zero-length block has
// zero energy.
//
// The block is run through the second-order recurrence
//
//	s0 = x[n] + coeff*s1 - s2
//
// and the energy is taken from the two retained state values:
//
//	energy = s1² + s2² − coeff·s1·s2
//
// No window function is applied beyond the implicit rectangular window.
// Deterministic: identical input always yields the identical value.
func (g *Goertzel) Energy(samples []float32) float64 {
	var s0, s1, s2 float64
	coeff := g.coefficient

	for _, x := range samples {
		s0 = float64(x) + coeff*s1 - s2
		s2 = s1
		s1 = s0
	}

	energy := s1*s1 + s2*s2 - coeff*s1*s2

	// Guard against floating point errors causing negative values
	if energy < 0 {
		energy = 0
	}

	return energy
}

// Config returns the current configuration (for testing and inspection)
func (g *Goertzel) Config() GoertzelConfig {
	return g.config
}

// Coefficient returns the pre-computed Goertzel coefficient (for testing)
func (g *Goertzel) Coefficient() float64 {
	return g.coefficient
}

// BlockSize returns the configured block size
func (g *Goertzel) BlockSize() int {
	return g.config.BlockSize
}
