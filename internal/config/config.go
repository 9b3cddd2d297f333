// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	AppName    = "dtmfdecoder"
	ConfigType = "yaml"

	// MaxBinWidth is the widest usable frequency resolution in Hz. The
	// adjacent low-group tones sit 73 Hz apart; past roughly 60 Hz per bin
	// they blur together and peak selection becomes guesswork.
	MaxBinWidth = 60.0

	DefaultConfig = `# DTMF Decoder Configuration

# Audio device settings
device_index: -1        # -1 for default capture device
sample_rate: 8000       # Audio sample rate in Hz (8 kHz is the G.711 telephony rate)
channels: 1             # Number of channels (1=mono)
buffer_size: 512        # Audio capture period in frames

# Tone detection
block_size: 205         # Samples per detection window (205 @ 8 kHz = 39 Hz bins, ~25.6 ms)
min_energy: 5.0         # Absolute energy floor for each tone peak
peak_ratio: 2.0         # Peak must exceed the rest of its group by this factor
max_twist: 4.0          # Max low/high energy imbalance (0 disables the check)

# Timing
hold_blocks: 3          # Consecutive matching blocks to confirm a key press
spacing_blocks: 4       # Minimum gap (blocks) between a release and the next press (0 disables)

# Command mode
command_prefix: "*"     # Key that starts a command code
command_suffix: "#"     # Key that ends a command code

# Output
debug: false            # Enable debug output
`
)

// Settings holds all application configuration
type Settings struct {
	// Audio device settings
	DeviceIndex int     `mapstructure:"device_index"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Channels    int     `mapstructure:"channels"`
	BufferSize  int     `mapstructure:"buffer_size"`

	// Tone detection
	BlockSize int     `mapstructure:"block_size"`
	MinEnergy float64 `mapstructure:"min_energy"`
	PeakRatio float64 `mapstructure:"peak_ratio"`
	MaxTwist  float64 `mapstructure:"max_twist"`

	// Timing
	HoldBlocks    int `mapstructure:"hold_blocks"`
	SpacingBlocks int `mapstructure:"spacing_blocks"`

	// Command mode
	CommandPrefix string `mapstructure:"command_prefix"`
	CommandSuffix string `mapstructure:"command_suffix"`

	// Output
	Debug bool `mapstructure:"debug"`
}

// Init initializes Viper with defaults and config file.
// Config file search order: current directory, then ~/.config/dtmfdecoder/
func Init() error {
	// Set defaults
	viper.SetDefault("device_index", -1)
	viper.SetDefault("sample_rate", 8000)
	viper.SetDefault("channels", 1)
	viper.SetDefault("buffer_size", 512)
	viper.SetDefault("block_size", 205)
	viper.SetDefault("min_energy", 5.0)
	viper.SetDefault("peak_ratio", 2.0)
	viper.SetDefault("max_twist", 4.0)
	viper.SetDefault("hold_blocks", 3)
	viper.SetDefault("spacing_blocks", 4)
	viper.SetDefault("command_prefix", "*")
	viper.SetDefault("command_suffix", "#")
	viper.SetDefault("debug", false)

	// Support both config.yaml and .config.yaml
	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		// Try config.yaml as fallback
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	// Read config file - if not found, create default in XDG config dir
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// No config found - create default in ~/.config/dtmfdecoder/
			xdgConfigPath := filepath.Join(configDir, AppName)
			if err = ensureConfigExists(xdgConfigPath); err != nil {
				return err
			}
			// Read the newly created config
			if err = viper.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		} else {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func ensureConfigExists(configPath string) error {
	configFile := filepath.Join(configPath, "config.yaml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err = os.MkdirAll(configPath, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err = os.WriteFile(configFile, []byte(DefaultConfig), 0644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that all settings are within acceptable ranges
func (s *Settings) Validate() error {
	var errs []error

	// Audio device settings
	if s.SampleRate < 8000 || s.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %v", s.SampleRate))
	}
	if s.Channels < 1 || s.Channels > 2 {
		errs = append(errs, fmt.Errorf("channels must be 1 or 2, got %d", s.Channels))
	}
	if s.BufferSize < 64 || s.BufferSize > 8192 {
		errs = append(errs, fmt.Errorf("buffer_size must be between 64 and 8192, got %d", s.BufferSize))
	}

	// Tone detection
	if s.BlockSize < 32 || s.BlockSize > 4096 {
		errs = append(errs, fmt.Errorf("block_size must be between 32 and 4096, got %d", s.BlockSize))
	} else if s.SampleRate > 0 {
		// Block length fixes the frequency resolution; too coarse and the
		// adjacent DTMF tones can no longer be told apart.
		binWidth := s.SampleRate / float64(s.BlockSize)
		if binWidth > MaxBinWidth {
			errs = append(errs, fmt.Errorf("block_size %d gives %.1f Hz resolution at %v Hz; need %.0f Hz or finer to separate DTMF tones",
				s.BlockSize, binWidth, s.SampleRate, MaxBinWidth))
		}
	}
	if s.MinEnergy < 0 {
		errs = append(errs, fmt.Errorf("min_energy must be non-negative, got %v", s.MinEnergy))
	}
	if s.PeakRatio < 1.0 || s.PeakRatio > 10.0 {
		errs = append(errs, fmt.Errorf("peak_ratio must be between 1.0 and 10.0, got %v", s.PeakRatio))
	}
	if s.MaxTwist != 0 && (s.MaxTwist < 1.0 || s.MaxTwist > 100.0) {
		errs = append(errs, fmt.Errorf("max_twist must be 0 (disabled) or between 1.0 and 100.0, got %v", s.MaxTwist))
	}

	// Timing
	if s.HoldBlocks < 1 || s.HoldBlocks > 50 {
		errs = append(errs, fmt.Errorf("hold_blocks must be between 1 and 50, got %d", s.HoldBlocks))
	}
	if s.SpacingBlocks < 0 || s.SpacingBlocks > 100 {
		errs = append(errs, fmt.Errorf("spacing_blocks must be between 0 and 100, got %d", s.SpacingBlocks))
	}

	// Command mode
	if len(s.CommandPrefix) != 1 {
		errs = append(errs, fmt.Errorf("command_prefix must be a single key, got %q", s.CommandPrefix))
	}
	if len(s.CommandSuffix) != 1 {
		errs = append(errs, fmt.Errorf("command_suffix must be a single key, got %q", s.CommandSuffix))
	}
	if s.CommandPrefix == s.CommandSuffix {
		errs = append(errs, fmt.Errorf("command_prefix and command_suffix must differ, got %q", s.CommandPrefix))
	}

	// Nyquist check: the highest DTMF tone must sit below half the sample rate
	if s.SampleRate/2 <= 1633 {
		errs = append(errs, fmt.Errorf("sample_rate %v Hz puts the 1633 Hz tone above the Nyquist frequency", s.SampleRate))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
