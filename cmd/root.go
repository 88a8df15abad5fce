// cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ColonelBlimp/soundmix/internal/asset"
	"github.com/ColonelBlimp/soundmix/internal/config"
	"github.com/ColonelBlimp/soundmix/internal/device"
	"github.com/ColonelBlimp/soundmix/internal/mixer"
	"github.com/ColonelBlimp/soundmix/internal/pathsafe"
)

var (
	toneHz     float64
	toneLength float64
)

var rootCmd = &cobra.Command{
	Use:   "soundmix",
	Short: "A real-time software audio mixer",
	Long:  `soundmix plays a single sound asset through a real output device, demonstrating the mixer core: resampling, panning, volume ramping, looping and stop-fade.`,
}

var playCmd = &cobra.Command{
	Use:   "play [file]",
	Short: "Decode and play a sound file, or synthesize a tone with --tone",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlay,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().IntP("device", "d", -1, "output device index (-1 for default)")
	rootCmd.PersistentFlags().Float64P("volume", "v", 1.0, "master volume")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable debug output")
	cobra.CheckErr(viper.BindPFlag("device_index", rootCmd.PersistentFlags().Lookup("device")))
	cobra.CheckErr(viper.BindPFlag("master_volume", rootCmd.PersistentFlags().Lookup("volume")))
	cobra.CheckErr(viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")))

	playCmd.Flags().Float64Var(&toneHz, "tone", 0, "play a synthesized sine tone at this frequency instead of a file")
	playCmd.Flags().Float64Var(&toneLength, "tone-seconds", 2, "duration of the synthesized tone, in seconds")

	rootCmd.AddCommand(playCmd)
}

func initConfig() {
	if err := config.Init(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}

// runPlay wires config, a playback device and a mixer together to play
// either a decoded file or a synthesized tone, until playback finishes
// or the process is interrupted.
func runPlay(_ *cobra.Command, args []string) error {
	settings, err := config.Get()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		fmt.Printf("\nReceived signal %v, shutting down...\n", sig)
		cancel()
	}()

	m := mixer.New(log.Default())
	m.SetMasterVolume(float32(settings.MasterVolume))

	handle := mixer.Invalid

	switch {
	case toneHz > 0:
		asset := synthTone(m, toneHz, toneLength)
		handle = m.Play(mixer.PlayArgs{Asset: asset})
		fmt.Printf("Playing %gHz tone for %gs. Press Ctrl+C to stop.\n", toneHz, toneLength)
	case len(args) == 1:
		path, err := pathsafe.Resolve(".", args[0])
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		asset, err := m.CreateFromFile(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		handle = m.Play(mixer.PlayArgs{Asset: asset})
		fmt.Printf("Playing %s. Press Ctrl+C to stop.\n", path)
	default:
		return fmt.Errorf("play requires a file argument or --tone")
	}

	dev := device.New(device.Config{
		DeviceIndex: settings.DeviceIndex,
		SampleRate:  mixer.OutputSampleRateHz,
		Channels:    mixer.OutputChannels,
		BufferSize:  uint32(settings.BufferSize),
	})
	if err := dev.Init(); err != nil {
		return fmt.Errorf("init device: %w", err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error closing device: %v\n", err)
		}
	}()

	if settings.Debug {
		if infos, err := dev.ListDevices(); err == nil {
			fmt.Println("Available output devices:")
			for i, info := range infos {
				fmt.Printf("  [%d] %s\n", i, info.Name())
			}
		}
	}

	if err := dev.Start(ctx, m.Mix); err != nil {
		return fmt.Errorf("start device: %w", err)
	}

	waitForSilence(ctx, m, handle)

	if err := dev.Stop(); err != nil && err != device.ErrNotRunning {
		fmt.Fprintf(os.Stderr, "error stopping device: %v\n", err)
	}
	fmt.Println("Playback finished.")
	fmt.Printf("Total samples played: %d (%.3fs)\n", m.TotalSamplesPlayed(), m.TotalTimePlayed())
	return nil
}

// waitForSilence blocks until the voice addressed by h stops playing or
// ctx is cancelled.
func waitForSilence(ctx context.Context, m *mixer.Mixer, h mixer.Handle) {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.IsPlaying(h) {
				return
			}
		}
	}
}

// synthTone builds and registers a mono sine-wave asset at the mixer's
// output rate.
func synthTone(m *mixer.Mixer, hz, seconds float64) *asset.Asset {
	n := int(seconds * mixer.OutputSampleRateHz)
	samples := make([]float32, n)
	for i := range samples {
		t := float64(i) / mixer.OutputSampleRateHz
		samples[i] = float32(math.Sin(2 * math.Pi * hz * t))
	}
	return m.CreateFromMono(mixer.OutputSampleRateHz, samples)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "execution error: %v\n", err)
		os.Exit(1)
	}
}
