package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"

	"github.com/chadboyda/longform-video-generator/internal/types"
)

// AnalyzeAudio decodes a file's audio through astats and loudnorm and
// reports overall peak (dBFS) and integrated loudness (LUFS).
func (a *Adapter) AnalyzeAudio(ctx context.Context, path string) (types.AudioStats, error) {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-i", path,
		"-af", "astats=measure_perchannel=none,loudnorm=print_format=json",
		"-f", "null", "-",
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.AudioStats{}, fmt.Errorf("ffmpeg analyze audio: %w\n%s", err, string(b))
	}
	return parseAudioStats(string(b))
}

var (
	rePeakLevel = regexp.MustCompile(`Peak level dB:\s*(-?[0-9.]+|-inf)`)
	reInputI    = regexp.MustCompile(`"input_i"\s*:\s*"(-?[0-9.]+)"`)
)

func parseAudioStats(out string) (types.AudioStats, error) {
	var stats types.AudioStats

	m := rePeakLevel.FindStringSubmatch(out)
	if m == nil {
		return stats, fmt.Errorf("no peak level in analyzer output")
	}
	if m[1] == "-inf" {
		// Digital silence.
		stats.PeakDB = math.Inf(-1)
	} else {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return stats, fmt.Errorf("parse peak level %q: %w", m[1], err)
		}
		stats.PeakDB = v
	}

	m = reInputI.FindStringSubmatch(out)
	if m == nil {
		return stats, fmt.Errorf("no integrated loudness in analyzer output")
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return stats, fmt.Errorf("parse integrated loudness %q: %w", m[1], err)
	}
	stats.InputLUFS = v
	return stats, nil
}
