package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vsariola/soundscape"
	"github.com/vsariola/soundscape/config"
	"github.com/vsariola/soundscape/engine"
	"github.com/vsariola/soundscape/gomidi"
	"github.com/vsariola/soundscape/log"
	"github.com/vsariola/soundscape/oto"
	"github.com/vsariola/soundscape/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the exit code, so that deferred cleanup runs before main exits.
func run(args []string) int {
	flags := flag.NewFlagSet("soundscape-play", flag.ContinueOnError)
	presetFlag := flags.String("preset", "", "Soundscape to start with: off, rain or forest. By default, the soundscape of the previous session.")
	volume := flags.Float64("volume", -1, "Volume to start with, between 0 and 1. By default, the volume of the previous session.")
	configFile := flags.String("config", "", "Configuration file. By default, soundscape.yml in the user config directory, if it exists.")
	wavOut := flags.String("w", "", "Render the soundscape offline to the given .wav file instead of playing it.")
	rawOut := flags.String("r", "", "Render the soundscape offline to the given .raw file instead of playing it.")
	pcm := flags.Bool("c", false, "Convert audio to 16-bit signed PCM when rendering to a file.")
	seconds := flags.Float64("d", 10, "Length of the offline render in seconds.")
	midiPrefix := flags.String("midi", "", "Listen to the first MIDI input whose name starts with this prefix. Overrides the configuration.")
	listMidi := flags.Bool("list-midi", false, "List MIDI inputs and exit.")
	logLevel := flags.String("log", "", "Log level: debug, info, warn or error. Overrides the configuration.")
	noState := flags.Bool("no-state", false, "Do not restore or save the session state.")
	versionFlag := flags.Bool("v", false, "Print version.")
	flags.Usage = func() { printUsage(flags) }
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *versionFlag {
		fmt.Println(version.Describe("soundscape-play"))
		return 0
	}
	if *listMidi {
		names, err := gomidi.Inputs()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return 0
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *midiPrefix != "" {
		cfg.MIDI.Input = *midiPrefix
	}
	lg := log.New(cfg.Log.Level, cfg.Log.Dir)
	defer lg.Close()
	lg.Info(version.Describe("soundscape-play"))

	start := cfg.State()
	statePath, err := config.StatePath()
	if err != nil {
		lg.Warnf("no state file: %v", err)
		*noState = true
	}
	if !*noState && *wavOut == "" && *rawOut == "" {
		if saved, ok, err := config.LoadState(statePath); err != nil {
			lg.Warnf("could not restore state: %v", err)
		} else if ok {
			start = saved
		}
	}
	if *presetFlag != "" {
		if start.Preset, err = soundscape.ParsePreset(*presetFlag); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if *volume >= 0 {
		start.Volume = *volume
	}

	if *wavOut != "" || *rawOut != "" {
		if err := render(cfg, start, *seconds, *wavOut, *rawOut, *pcm, lg); err != nil {
			lg.Errorf("render failed: %v", err)
			return 1
		}
		return 0
	}

	newContext := func() (soundscape.AudioContext, error) {
		c, err := oto.NewContext(cfg.Engine.SampleRate, cfg.BufferSize)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	e, err := engine.New(cfg.Engine, newContext, lg)
	if err != nil {
		lg.Errorf("%v", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() {
		if err := e.Close(); err != nil {
			lg.Warnf("closing the engine: %v", err)
		}
	}()
	e.SetVolume(start.Volume)
	if err := e.Select(start.Preset); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	printState(os.Stdout, e.State())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return commandLoop(ctx, e) })
	if cfg.MIDI.Input != "" {
		controller := gomidi.NewController(e, cfg.MIDI.VolumeCC, cfg.MIDI.Channel, lg)
		input, err := gomidi.OpenInput(cfg.MIDI.Input, controller)
		if err != nil {
			lg.Warnf("MIDI disabled: %v", err)
			fmt.Fprintf(os.Stderr, "MIDI disabled: %v\n", err)
		} else {
			defer input.Close()
			fmt.Printf("listening to MIDI input %v\n", input)
			eg.Go(func() error { return controller.Run(ctx) })
		}
	}
	if err := eg.Wait(); err != nil && !errors.Is(err, errQuit) {
		lg.Errorf("%v", err)
	}

	if !*noState {
		if err := config.SaveState(statePath, e.State()); err != nil {
			lg.Warnf("could not save state: %v", err)
		}
	}
	return 0
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg := config.Make()
	if cfg.YmlError != nil {
		fmt.Fprintf(os.Stderr, "ignoring soundscape.yml: %v\n", cfg.YmlError)
	}
	return cfg, nil
}

// commandLoop reads commands from stdin until quit, end of input or ctx is
// done.
func commandLoop(ctx context.Context, c controls) error {
	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := execute(c, line, os.Stdout); err != nil {
				if errors.Is(err, errQuit) {
					return err
				}
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
}

// render plays the soundscape into a capture context and writes the result
// to the .wav and/or .raw file. Transients are scheduled in wall clock time,
// so the render runs in real time, one block at a time.
func render(cfg config.Config, state engine.State, seconds float64, wavPath, rawPath string, pcm bool, lg *log.Logger) error {
	capture := &soundscape.CaptureContext{}
	e, err := engine.New(cfg.Engine, func() (soundscape.AudioContext, error) { return capture, nil }, lg)
	if err != nil {
		return err
	}
	defer e.Close()
	e.SetVolume(state.Volume)
	if err := e.Select(state.Preset); err != nil {
		return err
	}
	var buffer soundscape.AudioBuffer
	if state.Preset != soundscape.Off {
		const block = 100 * time.Millisecond
		frames := int(seconds * float64(cfg.Engine.SampleRate))
		blockFrames := int(block.Seconds() * float64(cfg.Engine.SampleRate))
		ticker := time.NewTicker(block)
		defer ticker.Stop()
		for len(buffer) < frames {
			b, err := capture.Capture(min(blockFrames, frames-len(buffer)))
			if err != nil {
				return fmt.Errorf("capture failed: %w", err)
			}
			buffer = append(buffer, b...)
			<-ticker.C
		}
	} else {
		buffer = make(soundscape.AudioBuffer, int(seconds*float64(cfg.Engine.SampleRate)))
	}
	if wavPath != "" {
		wav, err := buffer.Wav(cfg.Engine.SampleRate, pcm)
		if err != nil {
			return fmt.Errorf("could not generate .wav file: %w", err)
		}
		if err := os.WriteFile(wavPath, wav, 0644); err != nil {
			return fmt.Errorf("could not write file %v: %w", wavPath, err)
		}
	}
	if rawPath != "" {
		raw, err := buffer.Raw(pcm)
		if err != nil {
			return fmt.Errorf("could not generate .raw file: %w", err)
		}
		if err := os.WriteFile(rawPath, raw, 0644); err != nil {
			return fmt.Errorf("could not write file %v: %w", rawPath, err)
		}
	}
	lg.Info("rendered", "preset", state.Preset, "frames", len(buffer))
	return nil
}

func printUsage(flags *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Plays procedural rain and forest soundscapes. Type help for the commands.\nUsage: %s [flags]\n", flags.Name())
	flags.PrintDefaults()
}
