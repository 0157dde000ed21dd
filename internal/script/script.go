package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/chadboyda/longform-video-generator/internal/types"
)

// Script is the typed form of a production script file: the handoff from
// the upstream generation pipeline (aligned narration, one generated clip
// per segment, optional music) to timeline assembly. Everything past this
// boundary works on typed records only.
type Script struct {
	Title     string
	Voiceover Voiceover
	Music     *Music
	Clips     []string
}

type Voiceover struct {
	Audio    string
	Segments []types.VoiceoverSegment
}

type Music struct {
	Audio  string
	Volume float64
}

// Load reads, schema-validates, and decodes a script file. Media paths are
// resolved relative to the script's directory.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("script %s: %w", path, err)
	}
	s.resolvePaths(filepath.Dir(path))
	return s, nil
}

// Parse validates raw YAML against the embedded schema, then decodes the
// loosely-typed document into Script.
func Parse(data []byte) (Script, error) {
	if errs := ValidateBytes(data); len(errs) > 0 {
		return Script{}, fmt.Errorf("invalid script:\n  %s", strings.Join(errs, "\n  "))
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}

	var s Script
	if err := mapstructure.Decode(doc, &s); err != nil {
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	return s, nil
}

func (s *Script) resolvePaths(base string) {
	s.Voiceover.Audio = resolve(base, s.Voiceover.Audio)
	if s.Music != nil {
		s.Music.Audio = resolve(base, s.Music.Audio)
	}
	for i, c := range s.Clips {
		s.Clips[i] = resolve(base, c)
	}
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
