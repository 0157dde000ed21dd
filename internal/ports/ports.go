package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/chadboyda/longform-video-generator/internal/types"
)

// MediaProber reads duration and video geometry from a media file.
type MediaProber interface {
	Probe(ctx context.Context, path string) (types.MediaInfo, error)
}

// MediaTranscoder runs the external multimedia tool. Every method blocks
// until the process exits and carries its diagnostics in the returned error
// on a non-zero exit.
type MediaTranscoder interface {
	TrimClip(ctx context.Context, src string, limit time.Duration, dst string) error
	Concat(ctx context.Context, parts []string, dst string) error
	FadeOutTail(ctx context.Context, src string, fadeStart, fadeDur time.Duration, dst string) error
	RenderBlackFill(ctx context.Context, spec types.BlackFillSpec, dst string) error
	SpliceTo(ctx context.Context, parts []string, limit time.Duration, dst string) error
	MixAudio(ctx context.Context, spec types.MixSpec, dst string) error
	AnalyzeAudio(ctx context.Context, path string) (types.AudioStats, error)
}

// QualityGate inspects a clip for visual defects before it enters the
// timeline. Advisory: assembly runs without one.
type QualityGate interface {
	Review(ctx context.Context, path string) (types.GlitchReport, error)
}

// ProbeError distinguishes "could not inspect" from a genuinely empty file:
// exec failures, unparseable output, and implausible durations all surface
// as a ProbeError.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string { return fmt.Sprintf("probe %s: %v", e.Path, e.Err) }

func (e *ProbeError) Unwrap() error { return e.Err }
