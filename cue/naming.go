package cue

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/vsariola/pianoear"
)

// DefaultPattern names the recorded cues like "Gb id 2 octave_3.mp3".
const DefaultPattern = "{{.Note}} id {{.Variant}} octave_{{.Octave}}.mp3"

type (
	// Namer maps cues to file names with a text/template pattern. The sprig
	// functions are available in the pattern, e.g. "{{.Note | lower}}".
	Namer struct {
		tmpl *template.Template
	}

	// AssetName is the data a Namer pattern is executed with.
	AssetName struct {
		Note    string // e.g. "Gb"
		Octave  int
		Variant int
		Key     string // e.g. "Gb3"
		MIDI    int
	}
)

func NewNamer(pattern string) (*Namer, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	tmpl, err := template.New("asset").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid asset pattern %q: %w", pattern, err)
	}
	return &Namer{tmpl: tmpl}, nil
}

func (n *Namer) Name(note pianoear.Note, octave, variant int) (string, error) {
	var b strings.Builder
	data := AssetName{
		Note:    note.String(),
		Octave:  octave,
		Variant: variant,
		Key:     pianoear.KeyName(note, octave),
		MIDI:    pianoear.MIDINote(note, octave),
	}
	if err := n.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("cannot name asset %s variant %d: %w", data.Key, variant, err)
	}
	return b.String(), nil
}
