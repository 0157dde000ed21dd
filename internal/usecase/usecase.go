package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/chadboyda/longform-video-generator/internal/domain/timeline"
	"github.com/chadboyda/longform-video-generator/internal/domain/timing"
	"github.com/chadboyda/longform-video-generator/internal/ports"
	"github.com/chadboyda/longform-video-generator/internal/types"
)

type Deps struct {
	Prober     ports.MediaProber
	Transcoder ports.MediaTranscoder
	Gate       ports.QualityGate // optional; nil disables clip review
	Log        zerolog.Logger
}

// Config carries every assembly policy explicitly so tests and callers can
// inject alternates; nothing reads package-level state.
type Config struct {
	MinClipDuration time.Duration // floor for any single cut
	ProbeFallback   time.Duration // assumed source duration when probing fails; 0 turns probe failure into trim failure
	FadeDuration    time.Duration // fade-to-black over the video tail
	FillMargin      time.Duration // extra black past the measured gap
	FinalMargin     time.Duration // slack past the voiceover end

	MusicVolume  float64
	SampleRate   int
	AudioBitrate string
	PostMixGain  float64

	Parallelism int           // concurrent trims
	TrimTimeout time.Duration // wall-clock bound per trim transcode

	AbortOnTrimFailure bool // abort the run instead of skipping failed segments
	TrimOverrun        bool // hard-trim video that outruns the voiceover
	ReviewClips        bool // run the quality gate before trimming
	ValidateAudio      bool // analyze the mixed output for silence and clipping

	ClipPeakDB  float64 // peak above this warns about clipping
	SilenceLUFS float64 // integrated loudness below this fails the mix
}

// DefaultConfig returns the production policy set.
func DefaultConfig() Config {
	return Config{
		MinClipDuration: 2500 * time.Millisecond,
		ProbeFallback:   4 * time.Second,
		FadeDuration:    1500 * time.Millisecond,
		FillMargin:      500 * time.Millisecond,
		FinalMargin:     500 * time.Millisecond,
		MusicVolume:     0.15,
		SampleRate:      48000,
		AudioBitrate:    "256k",
		PostMixGain:     1.5,
		Parallelism:     2,
		TrimTimeout:     5 * time.Minute,
		ValidateAudio:   true,
		ClipPeakDB:      -0.5,
		SilenceLUFS:     -40,
	}
}

type Usecase struct {
	d   Deps
	cfg Config
}

func New(d Deps, cfg Config) Usecase { return Usecase{d: d, cfg: cfg} }

type Input struct {
	Segments      []types.VoiceoverSegment
	Clips         []string
	VoiceoverPath string
	MusicPath     string
	WorkDir       string
	OutputPath    string
}

// Result is always populated as far as the run got, even when Run also
// returns an error; callers never see a bare fault.
type Result struct {
	OutputPath        string
	VoiceoverDuration time.Duration
	VideoDuration     time.Duration
	SkippedSegments   []int
	Warnings          []string
	FailedStage       Stage
}

type Stage string

const (
	StageBuild       Stage = "build"
	StageTrim        Stage = "trim"
	StageConcatenate Stage = "concatenate"
	StageCheck       Stage = "check_duration"
	StageOutro       Stage = "outro"
	StageMix         Stage = "mix"
	StageDone        Stage = "done"
)

// Run assembles one production: pair narration with clips, trim, join,
// cover any duration shortfall, and mix the final audio.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	var res Result

	u.d.Log.Info().Str("stage", string(StageBuild)).Int("segments", len(in.Segments)).Msg("building timeline")
	tl, err := timeline.Build(in.Segments, in.Clips)
	if err != nil {
		res.FailedStage = StageBuild
		return res, err
	}
	tl.VoiceoverPath = in.VoiceoverPath
	tl.MusicPath = in.MusicPath
	tl.VoiceoverDuration = u.voiceoverDuration(ctx, tl, &res)
	res.VoiceoverDuration = tl.VoiceoverDuration

	u.d.Log.Info().Str("stage", string(StageTrim)).Int("parallelism", u.cfg.Parallelism).Msg("trimming clips")
	if err := u.trimAll(ctx, &tl, in.WorkDir, &res); err != nil {
		res.FailedStage = StageTrim
		return res, err
	}

	u.d.Log.Info().Str("stage", string(StageConcatenate)).Msg("concatenating clips")
	concatPath := filepath.Join(in.WorkDir, "concat.mp4")
	if err := u.concatenate(ctx, tl, concatPath); err != nil {
		res.FailedStage = StageConcatenate
		return res, err
	}

	u.d.Log.Info().Str("stage", string(StageCheck)).Msg("checking duration against voiceover")
	videoPath, videoDur := u.checkDuration(ctx, tl, concatPath, in.WorkDir, &res)
	res.VideoDuration = videoDur

	u.d.Log.Info().Str("stage", string(StageMix)).Bool("music", tl.MusicPath != "").Msg("mixing audio")
	finalDur, err := u.mix(ctx, tl, videoPath, videoDur, in.OutputPath, &res)
	if err != nil {
		res.FailedStage = StageMix
		return res, err
	}
	res.VideoDuration = finalDur
	res.OutputPath = in.OutputPath

	u.d.Log.Info().
		Str("stage", string(StageDone)).
		Str("output", in.OutputPath).
		Dur("voiceover", res.VoiceoverDuration).
		Dur("video", res.VideoDuration).
		Int("skipped", len(res.SkippedSegments)).
		Msg("assembly complete")
	return res, nil
}

// voiceoverDuration probes the narration track, the timing authority for
// the whole run. When the probe fails the aligned narration end stands in.
func (u Usecase) voiceoverDuration(ctx context.Context, tl types.Timeline, res *Result) time.Duration {
	info, err := u.d.Prober.Probe(ctx, tl.VoiceoverPath)
	if err != nil {
		end := timeline.NarrationEnd(tl.Segments)
		u.warnf(res, "voiceover probe failed, using narration end %.2fs: %v", end.Seconds(), err)
		return end
	}
	return info.Duration
}

func (u Usecase) concatenate(ctx context.Context, tl types.Timeline, dst string) error {
	// Ascending index, never completion order.
	parts := make([]string, 0, len(tl.Segments))
	for _, seg := range tl.Segments {
		if seg.TrimmedClip == "" {
			continue
		}
		parts = append(parts, seg.TrimmedClip)
	}
	if len(parts) == 0 {
		return ConcatenationError{}
	}
	if err := u.d.Transcoder.Concat(ctx, parts, dst); err != nil {
		return ConcatenationError{Valid: len(parts), Err: err}
	}
	return nil
}

// checkDuration measures the joined video against the voiceover and either
// pads it (outro), hard-trims an overrun when configured, or passes it
// through. Failures here degrade, they never abort.
func (u Usecase) checkDuration(ctx context.Context, tl types.Timeline, concatPath, workDir string, res *Result) (string, time.Duration) {
	info, err := u.d.Prober.Probe(ctx, concatPath)
	if err != nil {
		u.warnf(res, "cannot measure concatenated video, skipping outro: %v", err)
		return concatPath, 0
	}

	gap := timing.Gap(tl.VoiceoverDuration, info.Duration)
	switch {
	case gap > 0:
		u.d.Log.Info().
			Str("stage", string(StageOutro)).
			Dur("gap", gap).
			Msg("video falls short of voiceover, synthesizing outro")
		return u.synthesizeOutro(ctx, tl, concatPath, info, workDir, res)

	case u.cfg.TrimOverrun && info.Duration > tl.VoiceoverDuration+u.cfg.FinalMargin:
		limit := tl.VoiceoverDuration + u.cfg.FinalMargin
		dst := filepath.Join(workDir, "overrun_trim.mp4")
		if err := u.d.Transcoder.SpliceTo(ctx, []string{concatPath}, limit, dst); err != nil {
			u.warnf(res, "overrun trim failed, keeping full-length video: %v", err)
			return concatPath, info.Duration
		}
		u.d.Log.Info().Dur("from", info.Duration).Dur("to", limit).Msg("trimmed video overrun")
		return dst, limit
	}

	return concatPath, info.Duration
}

func (u Usecase) warnf(res *Result, format string, args ...any) {
	u.warn(res, fmt.Sprintf(format, args...))
}

func (u Usecase) warn(res *Result, msg string) {
	u.d.Log.Warn().Msg(msg)
	res.Warnings = append(res.Warnings, msg)
}
