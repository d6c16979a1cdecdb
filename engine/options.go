package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/vsariola/soundscape/dsp"
)

type (
	// Options are the synthesis parameters of all the presets.
	Options struct {
		SampleRate int             `yaml:"sampleRate"`
		Seed       uint64          `yaml:"seed,omitempty"` // 0 = seed from the clock
		Noise      dsp.NoiseParams `yaml:"noise"`
		Rain       RainOptions     `yaml:"rain"`
		Forest     ForestOptions   `yaml:"forest"`
		Birds      BirdOptions     `yaml:"birds"`
	}

	RainOptions struct {
		CutoffHz float64 `yaml:"cutoffHz"`
		Q        float64 `yaml:"q"`
	}

	// ForestOptions describe the wind bed: bandpassed noise whose center
	// frequency is swept by a slow LFO ("gusts").
	ForestOptions struct {
		CenterHz float64 `yaml:"centerHz"`
		Q        float64 `yaml:"q"`
		GustHz   float64 `yaml:"gustHz"`
		DepthHz  float64 `yaml:"depthHz"`
	}

	// BirdOptions describe the transient scheduler of the forest preset.
	BirdOptions struct {
		Interval    time.Duration   `yaml:"interval"`
		Probability float64         `yaml:"probability"`
		Chirp       dsp.ChirpParams `yaml:"chirp"`
	}
)

const DefaultVolume = 0.5

var DefaultOptions = Options{
	SampleRate: 44100,
	Noise:      dsp.DefaultNoise,
	Rain:       RainOptions{CutoffHz: 800, Q: dsp.WebAudioQ},
	Forest:     ForestOptions{CenterHz: 400, Q: 1, GustHz: 0.1, DepthHz: 200},
	Birds:      BirdOptions{Interval: 2 * time.Second, Probability: 0.3, Chirp: dsp.DefaultChirp},
}

func (o Options) Validate() error {
	var errs []error
	if o.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("sample rate must be positive, got %d", o.SampleRate))
	}
	if o.Noise.Seconds <= 0 || o.Noise.Integration <= 0 {
		errs = append(errs, errors.New("noise seconds and integration must be positive"))
	}
	if o.Rain.Q <= 0 || o.Forest.Q <= 0 {
		errs = append(errs, errors.New("filter Q must be positive"))
	}
	if o.Birds.Interval <= 0 {
		errs = append(errs, fmt.Errorf("bird interval must be positive, got %v", o.Birds.Interval))
	}
	if o.Birds.Probability < 0 || o.Birds.Probability > 1 {
		errs = append(errs, fmt.Errorf("bird probability must be in [0,1], got %v", o.Birds.Probability))
	}
	return errors.Join(errs...)
}
