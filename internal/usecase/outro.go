package usecase

import (
	"context"
	"path/filepath"
	"time"

	"github.com/chadboyda/longform-video-generator/internal/domain/timing"
	"github.com/chadboyda/longform-video-generator/internal/types"
)

// Geometry for the black fill when the joined video's own is unknown.
const (
	fallbackFillWidth     = 1280
	fallbackFillHeight    = 720
	fallbackFillFrameRate = 24.0
)

// synthesizeOutro pads video that ends before the narration does: fade the
// tail to black, render a silent black fill sized to the gap, splice, and
// hard-stop just past the voiceover end. Any failure falls back to the
// unpadded video with a warning; the mix still happens.
func (u Usecase) synthesizeOutro(ctx context.Context, tl types.Timeline, src string, info types.MediaInfo, workDir string, res *Result) (string, time.Duration) {
	plan, ok := timing.PlanOutro(info.Duration, tl.VoiceoverDuration, timing.OutroConfig{
		Fade:        u.cfg.FadeDuration,
		FillMargin:  u.cfg.FillMargin,
		FinalMargin: u.cfg.FinalMargin,
	})
	if !ok {
		return src, info.Duration
	}

	fill := types.BlackFillSpec{
		Width:     info.Width,
		Height:    info.Height,
		FrameRate: info.FrameRate,
		Duration:  plan.FillDuration,
	}
	if fill.Width <= 0 || fill.Height <= 0 || fill.FrameRate <= 0 {
		u.warnf(res, "video geometry unknown, filling at %dx%d@%g",
			fallbackFillWidth, fallbackFillHeight, fallbackFillFrameRate)
		fill.Width = fallbackFillWidth
		fill.Height = fallbackFillHeight
		fill.FrameRate = fallbackFillFrameRate
	}

	padded, err := u.runOutro(ctx, src, fill, plan, workDir)
	if err != nil {
		u.warn(res, OutroSynthesisFailure{Err: err}.Error()+"; using unpadded video")
		return src, info.Duration
	}
	u.d.Log.Info().
		Dur("fade_start", plan.FadeStart).
		Dur("fill", plan.FillDuration).
		Dur("final", plan.FinalDuration).
		Msg("outro synthesized")
	return padded, plan.FinalDuration
}

func (u Usecase) runOutro(ctx context.Context, src string, fill types.BlackFillSpec, plan timing.OutroPlan, workDir string) (string, error) {
	faded := filepath.Join(workDir, "concat_faded.mp4")
	if err := u.d.Transcoder.FadeOutTail(ctx, src, plan.FadeStart, plan.FadeDuration, faded); err != nil {
		return "", err
	}

	fillPath := filepath.Join(workDir, "outro_fill.mp4")
	if err := u.d.Transcoder.RenderBlackFill(ctx, fill, fillPath); err != nil {
		return "", err
	}

	padded := filepath.Join(workDir, "padded.mp4")
	if err := u.d.Transcoder.SpliceTo(ctx, []string{faded, fillPath}, plan.FinalDuration, padded); err != nil {
		return "", err
	}
	return padded, nil
}
