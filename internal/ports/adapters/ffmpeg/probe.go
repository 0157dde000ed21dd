package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/chadboyda/longform-video-generator/internal/ports"
	"github.com/chadboyda/longform-video-generator/internal/types"
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// Probe reads duration and video geometry. Audio-only files come back with
// zero width/height/rate and a valid duration.
func (a *Adapter) Probe(ctx context.Context, path string) (types.MediaInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_format",
		"-show_streams",
		"-of", "json",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.MediaInfo{}, &ports.ProbeError{Path: path, Err: fmt.Errorf("%w\n%s", err, string(b))}
	}
	info, err := parseProbeJSON(b)
	if err != nil {
		return types.MediaInfo{}, &ports.ProbeError{Path: path, Err: err}
	}
	return info, nil
}

func parseProbeJSON(b []byte) (types.MediaInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(b, &out); err != nil {
		return types.MediaInfo{}, fmt.Errorf("decode ffprobe output: %w", err)
	}

	sec := parseSeconds(out.Format.Duration)
	if sec <= 0 {
		// Some containers only report stream-level durations.
		for _, s := range out.Streams {
			if v := parseSeconds(s.Duration); v > sec {
				sec = v
			}
		}
	}
	if sec <= 0 {
		return types.MediaInfo{}, fmt.Errorf("implausible duration %q", out.Format.Duration)
	}

	info := types.MediaInfo{Duration: time.Duration(sec * float64(time.Second))}
	for _, s := range out.Streams {
		if s.CodecType != "video" {
			continue
		}
		info.Width = s.Width
		info.Height = s.Height
		info.FrameRate = parseFraction(s.AvgFrameRate)
		if info.FrameRate <= 0 {
			info.FrameRate = parseFraction(s.RFrameRate)
		}
		break
	}
	return info, nil
}

func parseSeconds(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseFraction handles ffprobe rates like "30000/1001" and plain numbers.
func parseFraction(s string) float64 {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return parseSeconds(s)
	}
	n := parseSeconds(num)
	d := parseSeconds(den)
	if d == 0 {
		return 0
	}
	return n / d
}
