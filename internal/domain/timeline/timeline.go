package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/chadboyda/longform-video-generator/internal/types"
)

// MismatchedInputError reports a segment/clip count disagreement. Upstream
// generation owes exactly one clip per narration segment; the builder does
// no look-ahead repair.
type MismatchedInputError struct {
	Segments int
	Clips    int
}

func (e MismatchedInputError) Error() string {
	return fmt.Sprintf("timeline: %d voiceover segments but %d clips", e.Segments, e.Clips)
}

// Build pairs voiceover segments with generated clips positionally and
// validates narration order. The aggregate's media paths and authoritative
// duration are filled in by the caller once probed; Build itself is pure
// data assembly with no side effects.
func Build(segs []types.VoiceoverSegment, clips []string) (types.Timeline, error) {
	if len(segs) != len(clips) {
		return types.Timeline{}, MismatchedInputError{Segments: len(segs), Clips: len(clips)}
	}
	if len(segs) == 0 {
		return types.Timeline{}, errors.New("timeline: no segments")
	}

	out := make([]types.TimelineSegment, 0, len(segs))
	var prevStart time.Duration
	for i, s := range segs {
		start := dur(s.Start)
		end := dur(s.End)
		if end <= start {
			return types.Timeline{}, fmt.Errorf("timeline: segment %d has start %.2fs >= end %.2fs", i, s.Start, s.End)
		}
		if i > 0 && start < prevStart {
			return types.Timeline{}, fmt.Errorf("timeline: segment %d starts before segment %d; narration order is fixed", i, i-1)
		}
		if clips[i] == "" {
			return types.Timeline{}, fmt.Errorf("timeline: segment %d has no clip path", i)
		}
		out = append(out, types.TimelineSegment{
			Index:      i,
			Text:       s.Text,
			Start:      start,
			End:        end,
			SourceClip: clips[i],
		})
		prevStart = start
	}
	return types.Timeline{Segments: out}, nil
}

// NarrationEnd returns the end of the last narration span. It is the
// secondary duration source when the voiceover track cannot be probed.
func NarrationEnd(segs []types.TimelineSegment) time.Duration {
	var end time.Duration
	for _, s := range segs {
		if s.End > end {
			end = s.End
		}
	}
	return end
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
