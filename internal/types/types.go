package types

import (
	"fmt"
	"time"
)

// VoiceoverSegment is one span of narration as reported by the upstream
// alignment service, offsets in seconds from the start of the track.
type VoiceoverSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TimelineSegment binds one voiceover span to one generated clip.
// TrimmedClip stays empty until the trim stage fills it; a segment whose
// trim failed keeps it empty and is skipped at concatenation.
type TimelineSegment struct {
	Index       int
	Text        string
	Start       time.Duration
	End         time.Duration
	SourceClip  string
	TrimmedClip string
}

func (s TimelineSegment) Duration() time.Duration { return s.End - s.Start }

// Timeline is the aggregate for one production run. VoiceoverDuration is
// the authoritative target every downstream video operation conforms to.
type Timeline struct {
	Segments          []TimelineSegment
	VoiceoverPath     string
	VoiceoverDuration time.Duration
	MusicPath         string
}

type MediaInfo struct {
	Duration  time.Duration
	Width     int
	Height    int
	FrameRate float64
}

type BlackFillSpec struct {
	Width     int
	Height    int
	FrameRate float64
	Duration  time.Duration
}

// MixSpec describes the final mux/mix. An empty MusicPath means the
// voiceover becomes the sole audio track. Limit bounds the output to the
// video stream's measured duration so audio never stretches the container.
type MixSpec struct {
	VideoPath    string
	VoicePath    string
	MusicPath    string
	MusicVolume  float64
	SampleRate   int
	AudioBitrate string
	PostGain     float64
	Limit        time.Duration
}

// AudioStats carries the post-mix loudness measurements: overall peak in
// dBFS and integrated loudness in LUFS.
type AudioStats struct {
	PeakDB    float64
	InputLUFS float64
}

type Span struct {
	Start time.Duration
	End   time.Duration
}

// GlitchReport lists visual defects found by the quality gate.
type GlitchReport struct {
	Blackouts []Span
	Freezes   []Span
}

func (r GlitchReport) Clean() bool {
	return len(r.Blackouts) == 0 && len(r.Freezes) == 0
}

func (r GlitchReport) Issues() []string {
	var out []string
	for _, b := range r.Blackouts {
		out = append(out, fmt.Sprintf("black frames %.2fs-%.2fs", b.Start.Seconds(), b.End.Seconds()))
	}
	for _, f := range r.Freezes {
		out = append(out, fmt.Sprintf("frozen video %.2fs-%.2fs", f.Start.Seconds(), f.End.Seconds()))
	}
	return out
}

// Report is the JSON result handed to downstream consumers.
type Report struct {
	Success              bool     `json:"success"`
	OutputPath           string   `json:"output_path,omitempty"`
	VoiceoverDurationSec float64  `json:"voiceover_duration_sec"`
	VideoDurationSec     float64  `json:"video_duration_sec"`
	SkippedSegments      []int    `json:"skipped_segments,omitempty"`
	Warnings             []string `json:"warnings,omitempty"`
	Error                string   `json:"error,omitempty"`
}
