// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// validSettings returns settings matching the config file defaults
func validSettings() Settings {
	return Settings{
		DeviceIndex:   -1,
		SampleRate:    8000,
		Channels:      1,
		BufferSize:    512,
		BlockSize:     205,
		MinEnergy:     5.0,
		PeakRatio:     2.0,
		MaxTwist:      4.0,
		HoldBlocks:    3,
		SpacingBlocks: 4,
		CommandPrefix: "*",
		CommandSuffix: "#",
		Debug:         false,
	}
}

func TestValidate_Defaults(t *testing.T) {
	s := validSettings()
	if err := s.Validate(); err != nil {
		t.Errorf("default settings failed validation: %v", err)
	}
}

func TestValidate_InvalidSettings(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"sample rate too low", func(s *Settings) { s.SampleRate = 4000 }},
		{"sample rate too high", func(s *Settings) { s.SampleRate = 200000 }},
		{"zero channels", func(s *Settings) { s.Channels = 0 }},
		{"three channels", func(s *Settings) { s.Channels = 3 }},
		{"buffer too small", func(s *Settings) { s.BufferSize = 32 }},
		{"buffer too large", func(s *Settings) { s.BufferSize = 16384 }},
		{"block too small", func(s *Settings) { s.BlockSize = 16 }},
		{"block too large", func(s *Settings) { s.BlockSize = 8192 }},
		{"resolution too coarse", func(s *Settings) { s.SampleRate = 48000; s.BlockSize = 512 }},
		{"negative min energy", func(s *Settings) { s.MinEnergy = -1 }},
		{"peak ratio below 1", func(s *Settings) { s.PeakRatio = 0.5 }},
		{"peak ratio too high", func(s *Settings) { s.PeakRatio = 20 }},
		{"twist below 1", func(s *Settings) { s.MaxTwist = 0.5 }},
		{"zero hold blocks", func(s *Settings) { s.HoldBlocks = 0 }},
		{"hold blocks too high", func(s *Settings) { s.HoldBlocks = 100 }},
		{"negative spacing", func(s *Settings) { s.SpacingBlocks = -1 }},
		{"empty prefix", func(s *Settings) { s.CommandPrefix = "" }},
		{"long prefix", func(s *Settings) { s.CommandPrefix = "**" }},
		{"empty suffix", func(s *Settings) { s.CommandSuffix = "" }},
		{"prefix equals suffix", func(s *Settings) { s.CommandSuffix = "*" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSettings()
			tc.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

// TestValidate_TwistDisabled checks 0 is accepted as "check off".
func TestValidate_TwistDisabled(t *testing.T) {
	s := validSettings()
	s.MaxTwist = 0
	if err := s.Validate(); err != nil {
		t.Errorf("max_twist 0 should be valid: %v", err)
	}
}

// TestValidate_ResolutionBound checks the block/rate interaction directly:
// the same block size can be fine at one rate and useless at another.
func TestValidate_ResolutionBound(t *testing.T) {
	s := validSettings()
	s.SampleRate = 48000
	s.BlockSize = 205 // 234 Hz bins: adjacent tones indistinguishable
	if err := s.Validate(); err == nil {
		t.Error("expected resolution error for 205 samples at 48 kHz")
	}

	s.BlockSize = 1024 // 47 Hz bins: acceptable
	if err := s.Validate(); err != nil {
		t.Errorf("1024 samples at 48 kHz should be valid: %v", err)
	}
}

func TestInit_CreatesDefaultConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	// Run from an empty directory so no stray config.yaml is picked up.
	workDir := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })

	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	configFile := filepath.Join(configHome, AppName, "config.yaml")
	if _, err := os.Stat(configFile); err != nil {
		t.Errorf("default config not written: %v", err)
	}

	s, err := Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if s.SampleRate != 8000 {
		t.Errorf("SampleRate = %v, want 8000", s.SampleRate)
	}
	if s.BlockSize != 205 {
		t.Errorf("BlockSize = %d, want 205", s.BlockSize)
	}
	if s.HoldBlocks != 3 {
		t.Errorf("HoldBlocks = %d, want 3", s.HoldBlocks)
	}
	if s.CommandPrefix != "*" || s.CommandSuffix != "#" {
		t.Errorf("command framing = %q/%q, want */#", s.CommandPrefix, s.CommandSuffix)
	}
}

func TestGet_InvalidConfigRejected(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("sample_rate", 8000)
	viper.Set("channels", 1)
	viper.Set("buffer_size", 512)
	viper.Set("block_size", 205)
	viper.Set("min_energy", 5.0)
	viper.Set("peak_ratio", 2.0)
	viper.Set("max_twist", 4.0)
	viper.Set("hold_blocks", 0) // invalid: breaks the state machine
	viper.Set("spacing_blocks", 4)
	viper.Set("command_prefix", "*")
	viper.Set("command_suffix", "#")

	if _, err := Get(); err == nil {
		t.Error("expected error for hold_blocks = 0")
	}
}
