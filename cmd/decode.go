// cmd/decode.go
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ColonelBlimp/dtmfdecoder/internal/audio"
	"github.com/ColonelBlimp/dtmfdecoder/internal/config"
	"github.com/ColonelBlimp/dtmfdecoder/internal/dtmf"
	"github.com/ColonelBlimp/dtmfdecoder/internal/recovery"
)

var decodeCmd = &cobra.Command{
	Use:   "decode",
	Short: "Print keys decoded from live audio",
	Long:  `Listens on the configured capture device and prints each confirmed keypad symbol as it is pressed.`,
	RunE:  runDecode,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return err
	}

	fmt.Println("DTMF DECODER")
	fmt.Print("(keys) → ")

	err = runSession(cmd.Context(), settings, func(event dtmf.KeyEvent) {
		switch event.Type {
		case dtmf.KeyPressed:
			fmt.Printf("%c", event.Symbol)
		case dtmf.KeyReleased:
			log.Debug("key released", "key", string(event.Symbol))
		}
	})
	fmt.Println()
	return err
}

// newDecoder builds the decoding pipeline from validated settings.
func newDecoder(s *config.Settings) (*dtmf.Decoder, error) {
	return dtmf.NewDecoder(dtmf.DecoderConfig{
		SampleRate:    s.SampleRate,
		BlockSize:     s.BlockSize,
		MinEnergy:     s.MinEnergy,
		PeakRatio:     s.PeakRatio,
		MaxTwist:      s.MaxTwist,
		HoldBlocks:    s.HoldBlocks,
		SpacingBlocks: s.SpacingBlocks,
	})
}

// runSession wires capture into the decoder and pumps samples until the
// context is cancelled or the process is interrupted. Events reach the
// given callback synchronously from the sample pump.
func runSession(ctx context.Context, s *config.Settings, cb dtmf.EventCallback) error {
	if s.Debug {
		log.SetLevel(log.DebugLevel)
	}

	decoder, err := newDecoder(s)
	if err != nil {
		return err
	}
	decoder.SetCallback(cb)

	capture := audio.New(audio.Config{
		DeviceIndex: s.DeviceIndex,
		SampleRate:  uint32(s.SampleRate),
		Channels:    uint32(s.Channels),
		BufferSize:  uint32(s.BufferSize),
	})
	if err := capture.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := capture.Start(ctx); err != nil {
		_ = capture.Close()
		return err
	}

	log.Debug("listening",
		"sample_rate", s.SampleRate,
		"block_size", s.BlockSize,
		"hold_blocks", s.HoldBlocks)

	done := make(chan struct{})
	go func() {
		defer recovery.HandlePanic()
		defer close(done)
		for samples := range capture.Samples {
			if err := decoder.Process(samples); err != nil {
				log.Warn("block rejected", "err", err)
			}
		}
	}()

	<-ctx.Done()
	_ = capture.Close()
	<-done
	return nil
}
