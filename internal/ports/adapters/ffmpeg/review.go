package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"time"

	"github.com/chadboyda/longform-video-generator/internal/types"
)

// detectFilters runs a decode pass looking for the two defect classes
// generative clips actually ship with: stretches of near-black frames and
// frozen motion. Thresholds tuned against AI footage.
const detectFilters = "blackdetect=d=0.1:pix_th=0.02,freezedetect=n=0.003:d=0.5"

// Reviewer is the ffmpeg-backed quality gate.
type Reviewer struct {
	ffmpeg string
}

func NewReviewer(ffmpegPath string) *Reviewer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Reviewer{ffmpeg: ffmpegPath}
}

func (r *Reviewer) Review(ctx context.Context, path string) (types.GlitchReport, error) {
	cmd := exec.CommandContext(ctx, r.ffmpeg,
		"-i", path,
		"-vf", detectFilters,
		"-an",
		"-f", "null", "-",
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.GlitchReport{}, fmt.Errorf("ffmpeg review: %w\n%s", err, string(b))
	}
	return parseGlitchReport(string(b)), nil
}

var (
	reBlack       = regexp.MustCompile(`black_start:([0-9.]+)\s+black_end:([0-9.]+)`)
	reFreezeStart = regexp.MustCompile(`freeze_start:\s*([0-9.]+)`)
	reFreezeEnd   = regexp.MustCompile(`freeze_end:\s*([0-9.]+)`)
)

// parseGlitchReport scans the detector log lines. A freeze that runs to the
// end of the clip emits no freeze_end; its span ends at zero to mean "until
// end".
func parseGlitchReport(out string) types.GlitchReport {
	var rep types.GlitchReport
	for _, m := range reBlack.FindAllStringSubmatch(out, -1) {
		rep.Blackouts = append(rep.Blackouts, types.Span{
			Start: secsOf(m[1]),
			End:   secsOf(m[2]),
		})
	}
	starts := reFreezeStart.FindAllStringSubmatch(out, -1)
	ends := reFreezeEnd.FindAllStringSubmatch(out, -1)
	for i, m := range starts {
		s := types.Span{Start: secsOf(m[1])}
		if i < len(ends) {
			s.End = secsOf(ends[i][1])
		}
		rep.Freezes = append(rep.Freezes, s)
	}
	return rep
}

func secsOf(s string) time.Duration {
	return time.Duration(math.Round(parseSeconds(s)*1000)) * time.Millisecond
}
