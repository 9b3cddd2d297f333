// cmd/root.go
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ColonelBlimp/dtmfdecoder/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "dtmfdecoder",
	Short: "DTMF (touch-tone) decoder from audio input",
	Long:  `A real-time DTMF decoder that detects touch-tone keypad signals in audio input and emits the pressed keys.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (override config file)
	rootCmd.PersistentFlags().IntP("device", "d", -1, "audio device index (-1 for default)")
	rootCmd.PersistentFlags().Float64P("rate", "r", 8000, "audio sample rate in Hz")
	rootCmd.PersistentFlags().IntP("hold", "H", 3, "blocks a tone must persist before a key press is confirmed")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable debug output")

	// Bind flags to viper
	viper.BindPFlag("device_index", rootCmd.PersistentFlags().Lookup("device"))
	viper.BindPFlag("sample_rate", rootCmd.PersistentFlags().Lookup("rate"))
	viper.BindPFlag("hold_blocks", rootCmd.PersistentFlags().Lookup("hold"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}
