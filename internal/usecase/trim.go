package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chadboyda/longform-video-generator/internal/domain/timing"
	"github.com/chadboyda/longform-video-generator/internal/types"
)

type trimOutcome struct {
	trimmed  string
	warnings []string
	err      error
}

// trimAll cuts every segment's clip to its narration window, a bounded
// number at a time. Outcomes land in a slice indexed by segment, so later
// stages see narration order no matter which trim finished first. Warnings
// and skips are folded into res only after the group settles; workers never
// touch shared state.
func (u Usecase) trimAll(ctx context.Context, tl *types.Timeline, workDir string, res *Result) error {
	outcomes := make([]trimOutcome, len(tl.Segments))

	limit := u.cfg.Parallelism
	if limit <= 0 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range tl.Segments {
		seg := tl.Segments[i]
		g.Go(func() error {
			out := u.trimOne(gctx, seg, workDir)
			outcomes[seg.Index] = out
			if out.err != nil && u.cfg.AbortOnTrimFailure {
				return TrimFailure{Segment: seg.Index, Err: out.err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, out := range outcomes {
		for _, w := range out.warnings {
			u.warn(res, w)
		}
		if out.err != nil {
			u.warn(res, TrimFailure{Segment: i, Err: out.err}.Error()+"; segment skipped")
			res.SkippedSegments = append(res.SkippedSegments, i)
			continue
		}
		tl.Segments[i].TrimmedClip = out.trimmed
	}
	return nil
}

func (u Usecase) trimOne(ctx context.Context, seg types.TimelineSegment, workDir string) trimOutcome {
	var out trimOutcome

	if u.cfg.ReviewClips && u.d.Gate != nil {
		report, err := u.d.Gate.Review(ctx, seg.SourceClip)
		switch {
		case err != nil:
			out.warnings = append(out.warnings,
				fmt.Sprintf("segment %d: clip review unavailable: %v", seg.Index, err))
		case !report.Clean():
			out.err = fmt.Errorf("clip rejected by quality gate: %s", strings.Join(report.Issues(), "; "))
			return out
		}
	}

	source := u.cfg.ProbeFallback
	info, err := u.d.Prober.Probe(ctx, seg.SourceClip)
	switch {
	case err == nil:
		source = info.Duration
	case u.cfg.ProbeFallback > 0:
		out.warnings = append(out.warnings,
			fmt.Sprintf("segment %d: probe failed, assuming %.1fs source: %v",
				seg.Index, u.cfg.ProbeFallback.Seconds(), err))
	default:
		out.err = err
		return out
	}

	cut := timing.ClampClip(seg.Duration(), u.cfg.MinClipDuration, source)
	dst := filepath.Join(workDir, fmt.Sprintf("seg_%03d_trim.mp4", seg.Index))
	u.d.Log.Debug().
		Int("segment", seg.Index).
		Dur("target", seg.Duration()).
		Dur("source", source).
		Dur("cut", cut).
		Msg("trimming segment clip")

	trimCtx := ctx
	if u.cfg.TrimTimeout > 0 {
		var cancel context.CancelFunc
		trimCtx, cancel = context.WithTimeout(ctx, u.cfg.TrimTimeout)
		defer cancel()
	}
	if err := u.d.Transcoder.TrimClip(trimCtx, seg.SourceClip, cut, dst); err != nil {
		out.err = err
		return out
	}
	out.trimmed = dst
	return out
}
