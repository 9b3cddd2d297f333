// internal/dsp/peak.go
package dsp

import "errors"

var (
	// ErrInvalidMinEnergy indicates the minimum energy threshold must be non-negative
	ErrInvalidMinEnergy = errors.New("minimum energy threshold must be non-negative")
	// ErrInvalidPeakRatio indicates the peak-to-second ratio must be at least 1
	ErrInvalidPeakRatio = errors.New("peak ratio must be at least 1.0")
	// ErrInvalidMaxTwist indicates the twist bound must be 0 (disabled) or at least 1
	ErrInvalidMaxTwist = errors.New("max twist must be 0 or at least 1.0")
)

// TonePair is a validated (low group, high group) frequency pair for one block.
type TonePair struct {
	Low  float64
	High float64
}

// PeakConfig holds the detection thresholds for peak selection.
// All values should come from the application config file; they are
// empirically tuned per deployment (microphone gain, noise floor) and
// must never be hard-coded at the call site.
type PeakConfig struct {
	// MinEnergy is the absolute energy floor a peak must exceed (from config: min_energy).
	// Rejects silence and low-level noise.
	MinEnergy float64
	// PeakRatio is the factor by which a group's peak must exceed every other
	// energy in its own group (from config: peak_ratio). Rejects ambiguous or
	// multi-tone blocks. Synthetic signals decode down to about 1.3; higher
	// values trade sensitivity for noise immunity.
	PeakRatio float64
	// MaxTwist bounds how far apart the low and high peak energies may be
	// (from config: max_twist). Rejects blocks where only one tone is really
	// present. 0 disables the check.
	MaxTwist float64
}

// PeakSelector picks the strongest low-group and high-group tone from a
// bank analysis and validates the pair against the configured thresholds.
// Failing validation is not an error; it is the normal "no tone present"
// outcome for silence, speech and noise.
type PeakSelector struct {
	config PeakConfig
}

// NewPeakSelector creates a peak selector with the given thresholds.
func NewPeakSelector(cfg PeakConfig) (*PeakSelector, error) {
	if cfg.MinEnergy < 0 {
		return nil, ErrInvalidMinEnergy
	}
	if cfg.PeakRatio < 1 {
		return nil, ErrInvalidPeakRatio
	}
	if cfg.MaxTwist != 0 && cfg.MaxTwist < 1 {
		return nil, ErrInvalidMaxTwist
	}
	return &PeakSelector{config: cfg}, nil
}

// Select picks the strongest tone in each group and validates the pair.
// The energies map must cover the eight canonical DTMF frequencies, as
// produced by Bank.Analyze. Returns false when the block holds no valid
// tone pair.
func (p *PeakSelector) Select(energies map[float64]float64) (TonePair, bool) {
	lowPeak, lowEnergy, lowSecond := groupPeak(LowGroup, energies)
	highPeak, highEnergy, highSecond := groupPeak(HighGroup, energies)

	// Both tones must rise above the configured floor.
	if lowEnergy <= p.config.MinEnergy || highEnergy <= p.config.MinEnergy {
		return TonePair{}, false
	}

	// Each peak must dominate its own group, otherwise the block is
	// ambiguous (noise, speech, overlapping tones).
	if lowEnergy < p.config.PeakRatio*lowSecond || highEnergy < p.config.PeakRatio*highSecond {
		return TonePair{}, false
	}

	// Twist check: a genuine DTMF symbol carries both tones at comparable
	// level; a lone tone plus noise floor does not.
	if p.config.MaxTwist > 0 {
		if lowEnergy > p.config.MaxTwist*highEnergy || highEnergy > p.config.MaxTwist*lowEnergy {
			return TonePair{}, false
		}
	}

	return TonePair{Low: lowPeak, High: highPeak}, true
}

// Config returns the current configuration
func (p *PeakSelector) Config() PeakConfig {
	return p.config
}

// groupPeak returns the strongest frequency in the group along with its
// energy and the second-highest energy. Iterating the group in ascending
// order with a strict comparison makes ties resolve to the lower frequency,
// keeping selection deterministic and reproducible.
func groupPeak(group [4]float64, energies map[float64]float64) (peak, peakEnergy, second float64) {
	peak = group[0]
	peakEnergy = energies[group[0]]
	for _, freq := range group[1:] {
		e := energies[freq]
		if e > peakEnergy {
			second = peakEnergy
			peak = freq
			peakEnergy = e
		} else if e > second {
			second = e
		}
	}
	return peak, peakEnergy, second
}
