package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chadboyda/longform-video-generator/internal/ports"
	"github.com/chadboyda/longform-video-generator/internal/ports/adapters/ffmpeg"
	"github.com/chadboyda/longform-video-generator/internal/script"
	"github.com/chadboyda/longform-video-generator/internal/types"
	"github.com/chadboyda/longform-video-generator/internal/usecase"
)

type Config struct {
	ScriptPath string
	OutDir     string

	// WorkRoot is the base directory for intermediate artifacts (trimmed
	// clips, the joined video, outro pieces). If empty, defaults to ".work".
	// Runs are never cleaned up; the joined video stays around so a failed
	// mix can be retried without re-trimming.
	WorkRoot string

	MinClipDuration time.Duration
	MusicVolume     float64 // a volume set in the script wins over this
	Parallelism     int
	TrimTimeout     time.Duration
	ProbeFallback   time.Duration

	AbortOnTrimFailure bool
	TrimOverrun        bool
	ReviewClips        bool
	ValidateAudio      bool

	FFmpegPath  string
	FFprobePath string

	Log zerolog.Logger
}

func (c Config) Validate() error {
	if c.ScriptPath == "" {
		return errors.New("script path is empty")
	}
	if _, err := os.Stat(c.ScriptPath); err != nil {
		return fmt.Errorf("stat script: %w", err)
	}
	if c.MinClipDuration <= 0 {
		return fmt.Errorf("clip floor must be > 0")
	}
	if c.MusicVolume <= 0 || c.MusicVolume > 1 {
		return fmt.Errorf("music volume must be in (0, 1]")
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be > 0")
	}
	if c.ProbeFallback < 0 {
		return fmt.Errorf("probe fallback must be >= 0")
	}
	return nil
}

// Result reports where a run left its artifacts. Assembly is populated as
// far as the run got even when Run also returns an error.
type Result struct {
	RunDir     string
	ReportPath string
	Assembly   usecase.Result
}

func Run(ctx context.Context, cfg Config) (Result, error) {
	log := cfg.Log

	sc, err := script.Load(cfg.ScriptPath)
	if err != nil {
		return Result{}, fmt.Errorf("load script: %w", err)
	}

	var musicPath string
	musicVolume := cfg.MusicVolume
	if sc.Music != nil {
		musicPath = sc.Music.Audio
		if sc.Music.Volume > 0 {
			musicVolume = sc.Music.Volume
		}
	}

	workRoot := cfg.WorkRoot
	if workRoot == "" {
		workRoot = ".work"
	}
	runID := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	workDir := filepath.Join(workRoot, "runs", runID)
	log.Info().Str("run_id", runID).Msg("preparing workspace")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return Result{}, err
	}
	log.Debug().Str("work", workDir).Msg("work dir ready")

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, runName(sc, cfg.ScriptPath), time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return Result{}, err
	}
	log.Info().Str("out", runOutDir).Msg("output run dir")

	// adapters
	tool := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	var gate ports.QualityGate
	if cfg.ReviewClips {
		gate = ffmpeg.NewReviewer(cfg.FFmpegPath)
	}

	ucfg := usecase.DefaultConfig()
	ucfg.MinClipDuration = cfg.MinClipDuration
	ucfg.ProbeFallback = cfg.ProbeFallback
	ucfg.MusicVolume = musicVolume
	ucfg.Parallelism = cfg.Parallelism
	if cfg.TrimTimeout > 0 {
		ucfg.TrimTimeout = cfg.TrimTimeout
	}
	ucfg.AbortOnTrimFailure = cfg.AbortOnTrimFailure
	ucfg.TrimOverrun = cfg.TrimOverrun
	ucfg.ReviewClips = cfg.ReviewClips
	ucfg.ValidateAudio = cfg.ValidateAudio

	uc := usecase.New(usecase.Deps{
		Prober:     tool,
		Transcoder: tool,
		Gate:       gate,
		Log:        log,
	}, ucfg)

	assembly, runErr := uc.Run(ctx, usecase.Input{
		Segments:      sc.Voiceover.Segments,
		Clips:         sc.Clips,
		VoiceoverPath: sc.Voiceover.Audio,
		MusicPath:     musicPath,
		WorkDir:       workDir,
		OutputPath:    filepath.Join(runOutDir, "final.mp4"),
	})

	// The report is written no matter how the run ended; downstream
	// consumers read it instead of parsing logs.
	res := Result{RunDir: runOutDir, Assembly: assembly}
	reportPath, repErr := writeReport(runOutDir, assembly, runErr)
	if repErr != nil {
		if runErr != nil {
			return res, runErr
		}
		return res, repErr
	}
	res.ReportPath = reportPath
	log.Info().Str("report", reportPath).Msg("report written")
	return res, runErr
}

func writeReport(runOutDir string, assembly usecase.Result, runErr error) (string, error) {
	rep := types.Report{
		Success:              runErr == nil,
		OutputPath:           assembly.OutputPath,
		VoiceoverDurationSec: assembly.VoiceoverDuration.Seconds(),
		VideoDurationSec:     assembly.VideoDuration.Seconds(),
		SkippedSegments:      assembly.SkippedSegments,
		Warnings:             assembly.Warnings,
	}
	if runErr != nil {
		rep.Error = runErr.Error()
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	p := filepath.Join(runOutDir, "report.json")
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

func runName(sc script.Script, scriptPath string) string {
	if sc.Title != "" {
		return sc.Title
	}
	return strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))
}

func buildRunOutDir(outRoot, name string, now time.Time) string {
	seg := normalizePathSegment(name)
	if seg == "" {
		seg = "run"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", name, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", seg, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.MediaProber = (*ffmpeg.Adapter)(nil)
var _ ports.MediaTranscoder = (*ffmpeg.Adapter)(nil)
var _ ports.QualityGate = (*ffmpeg.Reviewer)(nil)
