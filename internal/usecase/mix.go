package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/chadboyda/longform-video-generator/internal/types"
)

// mix lays the voiceover (and optional music bed) under the assembled video
// and writes the deliverable. The measured video duration caps the output so
// a long narration tail can never stretch the container.
func (u Usecase) mix(ctx context.Context, tl types.Timeline, videoPath string, videoDur time.Duration, outPath string, res *Result) (time.Duration, error) {
	spec := types.MixSpec{
		VideoPath:    videoPath,
		VoicePath:    tl.VoiceoverPath,
		MusicPath:    tl.MusicPath,
		MusicVolume:  u.cfg.MusicVolume,
		SampleRate:   u.cfg.SampleRate,
		AudioBitrate: u.cfg.AudioBitrate,
		PostGain:     u.cfg.PostMixGain,
		Limit:        videoDur,
	}
	if err := u.d.Transcoder.MixAudio(ctx, spec, outPath); err != nil {
		return 0, AudioMixError{Err: err}
	}

	final := videoDur
	if info, err := u.d.Prober.Probe(ctx, outPath); err == nil {
		final = info.Duration
	} else {
		u.warnf(res, "cannot measure final output: %v", err)
	}

	if u.cfg.ValidateAudio {
		if err := u.validateAudio(ctx, outPath, res); err != nil {
			return final, err
		}
	}
	return final, nil
}

// validateAudio rejects a mix whose soundtrack went missing (mapping bugs
// surface as near-silence, not as transcoder errors) and flags one that runs
// hot enough to clip.
func (u Usecase) validateAudio(ctx context.Context, path string, res *Result) error {
	stats, err := u.d.Transcoder.AnalyzeAudio(ctx, path)
	if err != nil {
		u.warnf(res, "audio validation unavailable: %v", err)
		return nil
	}
	u.d.Log.Debug().
		Float64("peak_db", stats.PeakDB).
		Float64("input_lufs", stats.InputLUFS).
		Msg("mixed audio measured")

	if stats.InputLUFS < u.cfg.SilenceLUFS {
		return AudioMixError{Err: fmt.Errorf("mixed output is effectively silent (%.1f LUFS)", stats.InputLUFS)}
	}
	if stats.PeakDB > u.cfg.ClipPeakDB {
		u.warnf(res, "mixed audio peaks at %.2f dBFS and may clip", stats.PeakDB)
	}
	return nil
}
