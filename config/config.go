// Package config loads the pianoear configuration: quiz timing, sound
// assets, session limits and the defaults of the keyboard.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vsariola/pianoear"
	"github.com/vsariola/pianoear/cue"
	"github.com/vsariola/pianoear/quiz"
)

// DefaultFile is the file name looked up when no config path is given.
const DefaultFile = "pianoear.yaml"

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

type (
	Config struct {
		Timing   TimingConfig   `mapstructure:"timing" yaml:"timing"`
		Sounds   SoundsConfig   `mapstructure:"sounds" yaml:"sounds"`
		Session  SessionConfig  `mapstructure:"session" yaml:"session"`
		Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
		MIDI     MIDIConfig     `mapstructure:"midi" yaml:"midi"`
	}

	TimingConfig struct {
		TimeToGuess       time.Duration `mapstructure:"time_to_guess"`
		TimeForShowAnswer time.Duration `mapstructure:"time_for_show_answer"`
	}

	SoundsConfig struct {
		Count   int    `mapstructure:"count" yaml:"count"`
		Assets  string `mapstructure:"assets" yaml:"assets"` // empty means synthesized cues
		Pattern string `mapstructure:"pattern" yaml:"pattern"`
	}

	// SessionConfig bounds the number of rounds a learner may ask for.
	SessionConfig struct {
		SoundsMin int `mapstructure:"sounds_min" yaml:"sounds_min"`
		SoundsMax int `mapstructure:"sounds_max" yaml:"sounds_max"`
	}

	DefaultsConfig struct {
		StartingOctave   int  `mapstructure:"starting_octave" yaml:"starting_octave"`
		Octaves          int  `mapstructure:"octaves" yaml:"octaves"`
		SoundsPerSession int  `mapstructure:"sounds_per_session" yaml:"sounds_per_session"`
		OneOctaveOnly    bool `mapstructure:"one_octave_only" yaml:"one_octave_only"`
		ShowKeys         bool `mapstructure:"show_keys" yaml:"show_keys"`
	}

	MIDIConfig struct {
		Input string `mapstructure:"input" yaml:"input"` // device name prefix
	}
)

func Default() Config {
	return Config{
		Timing: TimingConfig{
			TimeToGuess:       5 * time.Second,
			TimeForShowAnswer: 2 * time.Second,
		},
		Sounds: SoundsConfig{
			Count:   3,
			Pattern: cue.DefaultPattern,
		},
		Session: SessionConfig{
			SoundsMin: 1,
			SoundsMax: 100,
		},
		Defaults: DefaultsConfig{
			StartingOctave:   1,
			Octaves:          3,
			SoundsPerSession: 10,
			ShowKeys:         true,
		},
	}
}

// Load reads the configuration into v: defaults first, then the YAML file at
// path, then PIANOEAR_* environment variables (e.g. PIANOEAR_TIMING_TIME_TO_GUESS).
// If path is empty, DefaultFile is looked up in the working directory and in
// the user config directory; not finding it is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	setDefaults(v, Default())
	v.SetEnvPrefix("PIANOEAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFile, filepath.Ext(DefaultFile)))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pianoear"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("timing.time_to_guess", d.Timing.TimeToGuess)
	v.SetDefault("timing.time_for_show_answer", d.Timing.TimeForShowAnswer)
	v.SetDefault("sounds.count", d.Sounds.Count)
	v.SetDefault("sounds.assets", d.Sounds.Assets)
	v.SetDefault("sounds.pattern", d.Sounds.Pattern)
	v.SetDefault("session.sounds_min", d.Session.SoundsMin)
	v.SetDefault("session.sounds_max", d.Session.SoundsMax)
	v.SetDefault("defaults.starting_octave", d.Defaults.StartingOctave)
	v.SetDefault("defaults.octaves", d.Defaults.Octaves)
	v.SetDefault("defaults.sounds_per_session", d.Defaults.SoundsPerSession)
	v.SetDefault("defaults.one_octave_only", d.Defaults.OneOctaveOnly)
	v.SetDefault("defaults.show_keys", d.Defaults.ShowKeys)
	v.SetDefault("midi.input", d.MIDI.Input)
}

// Validate checks the constraints the quiz relies on. The answer must stay
// visible at least 500ms, the time the revealed key takes to go back to
// normal before the next round. The starting octave may lie above the
// highest window of the keyboard; the keyboard is then transposed to it.
func (c Config) Validate() error {
	switch {
	case c.Timing.TimeToGuess <= 0:
		return fmt.Errorf("%w: timing.time_to_guess must be positive, got %v", ErrInvalidConfig, c.Timing.TimeToGuess)
	case c.Timing.TimeForShowAnswer < 500*time.Millisecond:
		return fmt.Errorf("%w: timing.time_for_show_answer must be at least 500ms, got %v", ErrInvalidConfig, c.Timing.TimeForShowAnswer)
	case c.Sounds.Count < 1:
		return fmt.Errorf("%w: sounds.count must be at least 1, got %d", ErrInvalidConfig, c.Sounds.Count)
	case c.Session.SoundsMin > c.Session.SoundsMax:
		return fmt.Errorf("%w: session.sounds_min %d exceeds session.sounds_max %d", ErrInvalidConfig, c.Session.SoundsMin, c.Session.SoundsMax)
	case c.Defaults.Octaves < 1 || c.Defaults.Octaves > pianoear.MaxOctave:
		return fmt.Errorf("%w: defaults.octaves must be within 1..%d, got %d", ErrInvalidConfig,
			pianoear.MaxOctave, c.Defaults.Octaves)
	case c.Defaults.StartingOctave < pianoear.MinOctave || c.Defaults.StartingOctave > pianoear.MaxOctave:
		return fmt.Errorf("%w: defaults.starting_octave must be within %d..%d, got %d", ErrInvalidConfig,
			pianoear.MinOctave, pianoear.MaxOctave, c.Defaults.StartingOctave)
	}
	if err := c.CheckRounds(c.Defaults.SoundsPerSession); err != nil {
		return fmt.Errorf("defaults.sounds_per_session: %w", err)
	}
	if _, err := cue.NewNamer(c.Sounds.Pattern); err != nil {
		return fmt.Errorf("%w: sounds.pattern: %v", ErrInvalidConfig, err)
	}
	return nil
}

// CheckRounds checks a requested number of rounds against the session
// limits.
func (c Config) CheckRounds(n int) error {
	if n < c.Session.SoundsMin || n > c.Session.SoundsMax {
		return fmt.Errorf("%w: %d rounds, must be within %d..%d", ErrInvalidConfig, n, c.Session.SoundsMin, c.Session.SoundsMax)
	}
	return nil
}

// Settings returns the timing of the quiz Controller.
func (c Config) Settings() quiz.Settings {
	return quiz.Settings{
		TimeToGuess:       c.Timing.TimeToGuess,
		TimeForShowAnswer: c.Timing.TimeForShowAnswer,
		SoundsCount:       c.Sounds.Count,
	}
}

// MarshalYAML writes durations in their human readable form, e.g. "5s".
func (t TimingConfig) MarshalYAML() (any, error) {
	return map[string]string{
		"time_to_guess":        t.TimeToGuess.String(),
		"time_for_show_answer": t.TimeForShowAnswer.String(),
	}, nil
}

// WriteDefault writes the default configuration to path, creating the
// parent directories if needed.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
