package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/chadboyda/longform-video-generator/internal/pipeline"
)

func run(cmd *cobra.Command, scriptPath string) error {
	outDir, _ := cmd.Flags().GetString("out")
	workDir, _ := cmd.Flags().GetString("work")
	musicVolume, _ := cmd.Flags().GetFloat64("music-volume")
	parallel, _ := cmd.Flags().GetInt("parallel")
	abortOnTrim, _ := cmd.Flags().GetBool("abort-on-trim-failure")
	trimOverrun, _ := cmd.Flags().GetBool("trim-overrun")
	review, _ := cmd.Flags().GetBool("review")
	verbose, _ := cmd.Flags().GetBool("verbose")
	trimFloorSec, _ := cmd.Flags().GetFloat64("trim-floor")
	trimTimeoutSec, _ := cmd.Flags().GetInt("trim-timeout")
	probeFallbackSec, _ := cmd.Flags().GetFloat64("probe-fallback")
	validateAudio, _ := cmd.Flags().GetBool("validate-audio")

	absScript, err := filepath.Abs(scriptPath)
	if err != nil {
		return err
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: os.Getenv("NO_COLOR") != "",
	}).Level(level).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		ScriptPath: absScript,
		OutDir:     outDir,
		WorkRoot:   workDir,

		MinClipDuration: secondsToDuration(trimFloorSec),
		MusicVolume:     musicVolume,
		Parallelism:     parallel,
		TrimTimeout:     time.Duration(trimTimeoutSec) * time.Second,
		ProbeFallback:   secondsToDuration(probeFallbackSec),

		AbortOnTrimFailure: abortOnTrim,
		TrimOverrun:        trimOverrun,
		ReviewClips:        review,
		ValidateAudio:      validateAudio,

		FFmpegPath:  getenvDefault("FFMPEG_PATH", "ffmpeg"),
		FFprobePath: getenvDefault("FFPROBE_PATH", "ffprobe"),

		Log: log,
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info().Str("output", res.Assembly.OutputPath).Msg("video assembled")
	return nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
