// internal/dsp/bank.go
package dsp

// The eight standard DTMF tone frequencies in Hz. Each keypad symbol is the
// sum of one low-group (row) and one high-group (column) tone. Both groups
// are kept in ascending order; peak selection relies on that ordering for
// its deterministic tie-break.
var (
	LowGroup  = [4]float64{697, 770, 852, 941}
	HighGroup = [4]float64{1209, 1336, 1477, 1633}
)

// Tones returns all eight DTMF frequencies, low group first, ascending.
func Tones() []float64 {
	tones := make([]float64, 0, len(LowGroup)+len(HighGroup))
	tones = append(tones, LowGroup[:]...)
	tones = append(tones, HighGroup[:]...)
	return tones
}

// BankConfig holds configuration for the DTMF filter bank.
type BankConfig struct {
	// SampleRate is the audio sample rate in Hz (from config: sample_rate)
	SampleRate float64
	// BlockSize is the number of samples per detection window (from config: block_size)
	BlockSize int
}

// Bank owns one Goertzel filter per DTMF tone and produces one energy per
// tone per block. Pure and stateless across blocks; cost is linear in
// block length × 8.
type Bank struct {
	config  BankConfig
	filters map[float64]*Goertzel
}

// NewBank creates a filter bank covering the eight DTMF tones.
func NewBank(cfg BankConfig) (*Bank, error) {
	filters := make(map[float64]*Goertzel, len(LowGroup)+len(HighGroup))
	for _, freq := range Tones() {
		g, err := NewGoertzel(GoertzelConfig{
			TargetFrequency: freq,
			SampleRate:      cfg.SampleRate,
			BlockSize:       cfg.BlockSize,
		})
		if err != nil {
			return nil, err
		}
		filters[freq] = g
	}

	return &Bank{
		config:  cfg,
		filters: filters,
	}, nil
}

// Analyze computes the energy of one block at each of the eight DTMF tones.
// The returned map has exactly the eight canonical frequencies as keys.
// The block must match the configured block size exactly; energies from
// differently sized blocks would not be comparable.
func (b *Bank) Analyze(block []float32) (map[float64]float64, error) {
	if len(block) != b.config.BlockSize {
		return nil, ErrBlockLength
	}

	energies := make(map[float64]float64, len(b.filters))
	for freq, filter := range b.filters {
		energies[freq] = filter.Energy(block)
	}
	return energies, nil
}

// Config returns the current configuration
func (b *Bank) Config() BankConfig {
	return b.config
}
