package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/vsariola/pianoear/config"
	"github.com/vsariola/pianoear/quiz"
)

func TestDefaultIsValid(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	require.Equal(t, quiz.Settings{TimeToGuess: 5 * time.Second, TimeForShowAnswer: 2 * time.Second, SoundsCount: 3}, c.Settings())
}

// chdir moves the test into an empty directory, so that no config file is
// found.
func chdir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_NoFile(t *testing.T) {
	chdir(t)
	c, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, config.Default(), c)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pianoear.yaml")
	content := `timing:
  time_to_guess: 3s
sounds:
  count: 5
defaults:
  starting_octave: 4
  octaves: 2
  one_octave_only: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := config.Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, c.Timing.TimeToGuess)
	require.Equal(t, 2*time.Second, c.Timing.TimeForShowAnswer)
	require.Equal(t, 5, c.Sounds.Count)
	require.Equal(t, 4, c.Defaults.StartingOctave)
	require.Equal(t, 2, c.Defaults.Octaves)
	require.True(t, c.Defaults.OneOctaveOnly)
	require.True(t, c.Defaults.ShowKeys)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t)
	t.Setenv("PIANOEAR_TIMING_TIME_FOR_SHOW_ANSWER", "1500ms")
	t.Setenv("PIANOEAR_MIDI_INPUT", "Keystation")
	c, err := config.Load(viper.New(), "")
	require.NoError(t, err)
	require.Equal(t, 1500*time.Millisecond, c.Timing.TimeForShowAnswer)
	require.Equal(t, "Keystation", c.MIDI.Input)
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pianoear.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timing:\n  time_for_show_answer: 200ms\n"), 0644))
	_, err := config.Load(viper.New(), path)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestWriteDefault_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "pianoear.yaml")
	require.NoError(t, config.WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "time_to_guess: 5s")
	require.Contains(t, string(data), "sounds_per_session: 10")
	require.Contains(t, string(data), "octave_{{.Octave}}.mp3")

	c, err := config.Load(viper.New(), path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), c)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*config.Config){
		"zero guess time":       func(c *config.Config) { c.Timing.TimeToGuess = 0 },
		"short show time":       func(c *config.Config) { c.Timing.TimeForShowAnswer = 499 * time.Millisecond },
		"no sound variants":     func(c *config.Config) { c.Sounds.Count = 0 },
		"min above max":         func(c *config.Config) { c.Session.SoundsMin = 101 },
		"too many octaves":      func(c *config.Config) { c.Defaults.Octaves = 9 },
		"octave zero":           func(c *config.Config) { c.Defaults.StartingOctave = 0 },
		"octave nine":           func(c *config.Config) { c.Defaults.StartingOctave = 9 },
		"no octaves":            func(c *config.Config) { c.Defaults.Octaves = 0 },
		"too many rounds":       func(c *config.Config) { c.Defaults.SoundsPerSession = 101 },
		"broken asset template": func(c *config.Config) { c.Sounds.Pattern = "{{.Note" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := config.Default()
			mutate(&c)
			require.ErrorIs(t, c.Validate(), config.ErrInvalidConfig)
		})
	}
}

func TestValidate_HighStartingOctave(t *testing.T) {
	for octave := 1; octave <= 8; octave++ {
		c := config.Default()
		c.Defaults.StartingOctave = octave
		require.NoError(t, c.Validate(), "starting octave %d", octave)
	}
}

func TestCheckRounds(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.CheckRounds(1))
	require.NoError(t, c.CheckRounds(100))
	require.ErrorIs(t, c.CheckRounds(0), config.ErrInvalidConfig)
	require.ErrorIs(t, c.CheckRounds(101), config.ErrInvalidConfig)
}
