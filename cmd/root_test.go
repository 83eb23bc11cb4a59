package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vsariola/pianoear/config"
)

// execute runs the command line with a default config file and returns what
// it printed on stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultFile)
	require.NoError(t, config.WriteDefault(path))
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(append(args, "--config", path))
	err := rootCmd.Execute()
	return out.String(), err
}

func simulateArgs(mode, count, stopAt string) []string {
	return []string{"simulate", "--mode", mode, "--count", count, "--octave", "1", "--octaves", "3",
		"--answer-after", "1s", "--stop-at", stopAt, "--show-keys=false", "--one-octave=false", "--mute=false"}
}

func TestSimulatePractice(t *testing.T) {
	out, err := execute(t, simulateArgs("practice", "2", "0")...)
	require.NoError(t, err)
	require.Contains(t, out, "    0.00s  Cue      round 1/2\n")
	require.Contains(t, out, "    5.00s  Reveal   round 1/2 was ")
	require.Contains(t, out, "    7.00s  Cue      round 2/2\n")
	require.Contains(t, out, "   12.00s  Reveal   round 2/2 was ")
	require.True(t, strings.HasSuffix(out, "   14.00s  Complete\n"), out)
}

func TestSimulateTest(t *testing.T) {
	out, err := execute(t, simulateArgs("test", "2", "0")...)
	require.NoError(t, err)
	require.Contains(t, out, "    0.00s  Cue      round 1/2\n")
	require.Contains(t, out, "    1.00s  Reveal   round 1/2 was ")
	require.Contains(t, out, "    3.00s  Cue      round 2/2\n")
	require.Contains(t, out, "    4.00s  Reveal   round 2/2 was ")
	require.True(t, strings.HasSuffix(out, "    6.00s  Complete\n"), out)
}

func TestSimulateStop(t *testing.T) {
	out, err := execute(t, simulateArgs("practice", "3", "8s")...)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(out, "    8.00s  Stop\n"), out)
	require.NotContains(t, out, "round 3/3")
}

func TestSimulateRejectsRounds(t *testing.T) {
	_, err := execute(t, simulateArgs("practice", "0", "0")...)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	_, err = execute(t, simulateArgs("quiz", "1", "0")...)
	require.Error(t, err)
}

func TestSimulateHighStartingOctave(t *testing.T) {
	args := append(simulateArgs("practice", "6", "0"), "--octave", "7", "--one-octave=true")
	out, err := execute(t, args...)
	require.NoError(t, err)
	reveal := regexp.MustCompile(`Reveal   round \d/6 was ([A-G]b?)(\d)\n`)
	matches := reveal.FindAllStringSubmatch(out, -1)
	require.Len(t, matches, 6, out)
	for _, m := range matches {
		require.Equal(t, "7", m[2], "key %s%s drawn outside octave 7", m[1], m[2])
	}
}

func TestSimulateMuted(t *testing.T) {
	args := append(simulateArgs("practice", "1", "0"), "--mute=true")
	out, err := execute(t, args...)
	require.NoError(t, err)
	require.Contains(t, out, "    0.00s  Cue      round 1/1 (muted)\n")
	require.Contains(t, out, "    5.00s  Reveal   round 1/1 was ")
}

func TestKeys(t *testing.T) {
	out, err := execute(t, "keys", "--octave", "4", "--octaves", "1", "--transpose", "0")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 14)
	require.Equal(t, "Current octave 4", lines[0])
	require.Equal(t, []string{"INDEX", "KEY", "COLOR", "MIDI"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"0", "C4", "White", "60"}, strings.Fields(lines[2]))
	require.Equal(t, []string{"1", "Cb4", "Black", "61"}, strings.Fields(lines[3]))
	require.Equal(t, []string{"11", "B4", "White", "71"}, strings.Fields(lines[13]))
}

func TestKeysStartingOctaveAndTranspose(t *testing.T) {
	out, err := execute(t, "keys", "--octave", "8", "--octaves", "3", "--transpose", "0")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "Current octave 8", lines[0])
	require.Equal(t, "C6", strings.Fields(lines[2])[1])
	require.Equal(t, "B8", strings.Fields(lines[len(lines)-1])[1])

	out, err = execute(t, "keys", "--octave", "2", "--octaves", "3", "--transpose", "-1")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "Current octave 1", lines[0])
	require.Equal(t, "C1", strings.Fields(lines[2])[1])

	out, err = execute(t, "keys", "--octave", "1", "--octaves", "2", "--transpose", "3")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, "Current octave 4", lines[0])
	require.Equal(t, "C4", strings.Fields(lines[2])[1])
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.DefaultFile)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"init", "--config", path})
	require.NoError(t, rootCmd.Execute())
	require.FileExists(t, path)
	require.Contains(t, out.String(), "Created "+path)

	rootCmd.SetArgs([]string{"init", "--config", path})
	require.Error(t, rootCmd.Execute())
}

func TestEventPrinterLayout(t *testing.T) {
	f := sessionFlags{octave: 2, octaves: 1}
	cfg = config.Default()
	registry, err := f.newRegistry()
	require.NoError(t, err)
	require.NoError(t, registry.Highlight(3))
	p := newEventPrinter(io.Discard, registry, 1, true)
	require.Equal(t, "C2 Cb2 D2 [Db2] E2 F2 Fb2 G2 Gb2 A2 Ab2 B2", p.layout())
}
