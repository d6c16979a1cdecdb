// Package config loads the soundscape.yml configuration and keeps the state of
// the previous session in state.yml.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/vsariola/soundscape"
	"github.com/vsariola/soundscape/engine"
	"gopkg.in/yaml.v3"
)

type (
	Config struct {
		Preset     soundscape.Preset `yaml:"preset"`
		Volume     float64           `yaml:"volume"`
		BufferSize time.Duration     `yaml:"bufferSize"`
		Engine     engine.Options    `yaml:"engine"`
		Log        LogConfig         `yaml:"log"`
		MIDI       MIDIConfig        `yaml:"midi"`

		// YmlError is the error of reading the user config file, if it existed
		YmlError error `yaml:"-"`
	}

	LogConfig struct {
		Level string `yaml:"level"`
		Dir   string `yaml:"dir,omitempty"` // empty = user config dir
	}

	MIDIConfig struct {
		Input    string `yaml:"input"`    // prefix of the input port name, empty = no MIDI
		VolumeCC uint8  `yaml:"volumeCC"` // controller mapped to the volume
		Channel  int    `yaml:"channel"`  // 0-15, or -1 for any channel
	}
)

const dirName = "soundscape"

//go:embed soundscape.yml
var defaultConfigYaml []byte

// Default returns the configuration embedded in the binary.
func Default() Config {
	var c Config
	if err := decodeStrict(defaultConfigYaml, &c); err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return c
}

func decodeStrict(data []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Dir is the directory of soundscape.yml, state.yml and the log file.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, dirName), nil
}

// ReadCustomConfigYml modifies the target argument, i.e. needs a pointer
func ReadCustomConfigYml(filename string, target any) (exists bool, err error) {
	dir, err := Dir()
	if err != nil {
		return false, err
	}
	return readYml(filepath.Join(dir, filename), target)
}

func readYml(path string, target any) (exists bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return true, decodeStrict(data, target)
}

// Make returns the default configuration overridden by the user's
// soundscape.yml, if there is one. An invalid user file is reported in
// YmlError.
func Make() Config {
	c := Default()
	exists, err := ReadCustomConfigYml("soundscape.yml", &c)
	if exists {
		if err == nil {
			err = c.Validate()
		}
		if err != nil {
			c = Default()
			c.YmlError = err
		}
	}
	return c
}

// Load returns the default configuration overridden by the given file.
func Load(path string) (Config, error) {
	c := Default()
	if _, err := readYml(path, &c); err != nil {
		return c, fmt.Errorf("cannot read config %v: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid config %v: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Volume < 0 || c.Volume > 1 {
		errs = append(errs, fmt.Errorf("volume must be in [0,1], got %v", c.Volume))
	}
	if c.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("buffer size must be positive, got %v", c.BufferSize))
	}
	if c.MIDI.VolumeCC > 127 {
		errs = append(errs, fmt.Errorf("volume controller must be in 0-127, got %d", c.MIDI.VolumeCC))
	}
	if c.MIDI.Channel < -1 || c.MIDI.Channel > 15 {
		errs = append(errs, fmt.Errorf("MIDI channel must be in 0-15 or -1, got %d", c.MIDI.Channel))
	}
	return errors.Join(errs...)
}

// State returns the initial engine state described by the configuration.
func (c Config) State() engine.State {
	return engine.State{Preset: c.Preset, Volume: c.Volume}
}

// StatePath is the default location of state.yml.
func StatePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.yml"), nil
}

// LoadState reads the state saved by SaveState. If there is no saved state,
// ok is false and err is nil.
func LoadState(path string) (state engine.State, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return state, false, nil
	}
	if err != nil {
		return state, false, fmt.Errorf("cannot read state: %w", err)
	}
	if err := decodeStrict(data, &state); err != nil {
		return engine.State{}, false, fmt.Errorf("cannot parse state %v: %w", path, err)
	}
	if math.IsNaN(state.Volume) {
		state.Volume = engine.DefaultVolume
	}
	state.Volume = max(0, min(1, state.Volume))
	return state, true, nil
}

func SaveState(path string, state engine.State) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("cannot marshal state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create state dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write state: %w", err)
	}
	return nil
}
