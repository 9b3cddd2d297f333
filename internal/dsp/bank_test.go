// internal/dsp/bank_test.go
package dsp

import "testing"

func newTestBank(t *testing.T) *Bank {
	t.Helper()
	b, err := NewBank(BankConfig{
		SampleRate: testSampleRate,
		BlockSize:  testBlockSize,
	})
	if err != nil {
		t.Fatalf("NewBank failed: %v", err)
	}
	return b
}

func TestNewBank_InvalidConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  BankConfig
	}{
		{"zero block size", BankConfig{SampleRate: testSampleRate, BlockSize: 0}},
		{"zero sample rate", BankConfig{SampleRate: 0, BlockSize: testBlockSize}},
		// 1633 Hz tone lands above Nyquist at 3 kHz
		{"rate below tones", BankConfig{SampleRate: 3000, BlockSize: testBlockSize}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewBank(tc.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestBank_Analyze_CoversAllTones(t *testing.T) {
	b := newTestBank(t)

	energies, err := b.Analyze(generateSilence(testBlockSize))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(energies) != 8 {
		t.Fatalf("Analyze returned %d energies, want 8", len(energies))
	}
	for _, freq := range Tones() {
		if _, ok := energies[freq]; !ok {
			t.Errorf("missing energy for %v Hz", freq)
		}
	}
}

func TestBank_Analyze_BlockLengthMismatch(t *testing.T) {
	b := newTestBank(t)

	testCases := []struct {
		name   string
		length int
	}{
		{"empty", 0},
		{"short", testBlockSize - 1},
		{"long", testBlockSize + 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.Analyze(generateSilence(tc.length))
			if err != ErrBlockLength {
				t.Errorf("expected ErrBlockLength, got: %v", err)
			}
		})
	}
}

// TestBank_Analyze_DualTone verifies a DTMF pair peaks in both groups.
func TestBank_Analyze_DualTone(t *testing.T) {
	b := newTestBank(t)
	block := generateDualTone(770, 1477, testSampleRate, testBlockSize, 0.5)

	energies, err := b.Analyze(block)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	for _, freq := range LowGroup {
		if freq != 770 && energies[freq] >= energies[770] {
			t.Errorf("low group: energy at %v Hz (%v) not below 770 Hz peak (%v)",
				freq, energies[freq], energies[770])
		}
	}
	for _, freq := range HighGroup {
		if freq != 1477 && energies[freq] >= energies[1477] {
			t.Errorf("high group: energy at %v Hz (%v) not below 1477 Hz peak (%v)",
				freq, energies[freq], energies[1477])
		}
	}
}
