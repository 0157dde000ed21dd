package timing

import "time"

// ClampClip computes the duration a source clip is cut to. A clip is only
// ever shortened: the voiceover target is raised to the floor so cuts never
// feel jarring, then capped at what the source actually contains. Shortfall
// left by a too-short source is not corrected here; it accumulates and is
// resolved at the timeline level by outro synthesis.
func ClampClip(target, floor, source time.Duration) time.Duration {
	eff := target
	if eff < floor {
		eff = floor
	}
	if source < eff {
		return source
	}
	return eff
}

// Gap returns how far the assembled video falls short of the voiceover.
// Non-positive means the video already covers the narration.
func Gap(voiceover, video time.Duration) time.Duration {
	return voiceover - video
}

type OutroConfig struct {
	Fade        time.Duration // fade-to-black length over the video tail
	FillMargin  time.Duration // extra black beyond the measured gap
	FinalMargin time.Duration // slack past the voiceover end after splicing
}

// OutroPlan is the geometry of one outro synthesis pass.
type OutroPlan struct {
	FadeStart     time.Duration
	FadeDuration  time.Duration
	FillDuration  time.Duration
	FinalDuration time.Duration
}

// PlanOutro decides whether a too-short video needs an outro and, if so,
// where the tail fade begins, how much black to synthesize, and the exact
// length the spliced result is cut to. ok is false when the video already
// covers the voiceover; the video must then pass through untouched.
func PlanOutro(video, voiceover time.Duration, cfg OutroConfig) (OutroPlan, bool) {
	gap := Gap(voiceover, video)
	if gap <= 0 {
		return OutroPlan{}, false
	}
	fadeStart := video - cfg.Fade
	if fadeStart < 0 {
		fadeStart = 0
	}
	return OutroPlan{
		FadeStart:     fadeStart,
		FadeDuration:  cfg.Fade,
		FillDuration:  gap + cfg.FillMargin,
		FinalDuration: voiceover + cfg.FinalMargin,
	}, true
}
