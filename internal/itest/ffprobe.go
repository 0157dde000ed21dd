//go:build integration

package itest

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ffprobeValue runs ffprobe in single-value output mode and returns the
// trimmed stdout.
func ffprobeValue(args ...string) (string, error) {
	argv := append([]string{"-v", "error", "-of", "default=noprint_wrappers=1:nokey=1"}, args...)
	b, err := exec.Command("ffprobe", argv...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffprobe: %w\n%s", err, string(b))
	}
	return strings.TrimSpace(string(b)), nil
}

func probeDurationSeconds(path string) (float64, error) {
	s, err := ffprobeValue("-show_entries", "format=duration", path)
	if err != nil {
		return 0, err
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func probeHasAudio(path string) (bool, error) {
	s, err := ffprobeValue("-select_streams", "a", "-show_entries", "stream=codec_type", path)
	if err != nil {
		return false, err
	}
	return strings.Contains(s, "audio"), nil
}
