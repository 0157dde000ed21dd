package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/chadboyda/longform-video-generator/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// TrimClip cuts src down to limit and strips its audio track. The -t cap
// means a source shorter than limit passes through at full length.
func (a *Adapter) TrimClip(ctx context.Context, src string, limit time.Duration, dst string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", src,
		"-t", fmtSeconds(limit),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-an",
		dst,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg trim clip: %w\n%s", err, string(b))
	}
	return nil
}

// Concat joins parts in order via the concat demuxer, stream-copied. The
// list file is left next to dst for diagnostics.
func (a *Adapter) Concat(ctx context.Context, parts []string, dst string) error {
	list := dst + ".txt"
	if err := os.WriteFile(list, []byte(concatListBody(parts)), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-c", "copy",
		"-movflags", "+faststart",
		dst,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg concat: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) FadeOutTail(ctx context.Context, src string, fadeStart, fadeDur time.Duration, dst string) error {
	filter := fmt.Sprintf("fade=t=out:st=%s:d=%s:color=black", fmtSeconds(fadeStart), fmtSeconds(fadeDur))
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", src,
		"-vf", filter,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-an",
		dst,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg fade out: %w\n%s", err, string(b))
	}
	return nil
}

func (a *Adapter) RenderBlackFill(ctx context.Context, spec types.BlackFillSpec, dst string) error {
	src := fmt.Sprintf("color=c=black:s=%dx%d:d=%s:r=%s",
		spec.Width, spec.Height, fmtSeconds(spec.Duration), fmtRate(spec.FrameRate))
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-f", "lavfi",
		"-i", src,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		dst,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg black fill: %w\n%s", err, string(b))
	}
	return nil
}

// SpliceTo concatenates parts and hard-caps the result at limit in one
// pass. Re-encodes: the parts come from different encoders (faded tail,
// synthesized fill) and the demuxer cannot stream-copy across them.
func (a *Adapter) SpliceTo(ctx context.Context, parts []string, limit time.Duration, dst string) error {
	list := dst + ".txt"
	if err := os.WriteFile(list, []byte(concatListBody(parts)), 0o644); err != nil {
		return fmt.Errorf("write splice list: %w", err)
	}
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-t", fmtSeconds(limit),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-an",
		"-movflags", "+faststart",
		dst,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg splice: %w\n%s", err, string(b))
	}
	return nil
}

// MixAudio muxes the voiceover (and music, when present) onto the silent
// video. The video stream is copied, never re-encoded.
func (a *Adapter) MixAudio(ctx context.Context, spec types.MixSpec, dst string) error {
	args := []string{"-y", "-i", spec.VideoPath, "-i", spec.VoicePath}
	if spec.MusicPath != "" {
		args = append(args,
			"-i", spec.MusicPath,
			"-filter_complex", buildMixFilter(spec),
			"-map", "0:v",
			"-map", "[mix]",
		)
	} else {
		args = append(args, "-map", "0:v", "-map", "1:a")
	}
	args = append(args,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", spec.AudioBitrate,
		"-ar", strconv.Itoa(spec.SampleRate),
	)
	if spec.Limit > 0 {
		args = append(args, "-t", fmtSeconds(spec.Limit))
	}
	args = append(args, "-movflags", "+faststart", dst)

	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg mix audio: %w\n%s", err, string(b))
	}
	return nil
}

// buildMixFilter resamples both tracks to the common rate before amix;
// mismatched sample rates silently corrupt mix timing. normalize=0 keeps
// the explicit volume levels authoritative, duration=first binds the mix
// to the voiceover.
func buildMixFilter(spec types.MixSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[1:a]aresample=%d[vo];", spec.SampleRate)
	fmt.Fprintf(&b, "[2:a]aresample=%d,volume=%s[bg];", spec.SampleRate, fmtVolume(spec.MusicVolume))
	b.WriteString("[vo][bg]amix=inputs=2:duration=first:normalize=0")
	if spec.PostGain > 0 && spec.PostGain != 1 {
		fmt.Fprintf(&b, ",volume=%s", fmtVolume(spec.PostGain))
	}
	b.WriteString("[mix]")
	return b.String()
}

func concatListBody(parts []string) string {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(p, "'", `'\''`))
		b.WriteString("'\n")
	}
	return b.String()
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

func fmtRate(r float64) string {
	if r == math.Trunc(r) {
		return strconv.Itoa(int(r))
	}
	return strconv.FormatFloat(r, 'f', 3, 64)
}

func fmtVolume(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
