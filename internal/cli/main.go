package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "lvg <script.yaml>",
		Short:        "Assemble a longform video from a narration script and generated clips",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("out", "out", "Output directory")
	root.Flags().String("work", ".work", "Directory for intermediate artifacts")
	root.Flags().Float64("music-volume", 0.15, "Background music volume in (0, 1]")
	root.Flags().Int("parallel", 2, "Concurrent clip trims")
	root.Flags().Bool("abort-on-trim-failure", false, "Fail the run when any clip cannot be trimmed")
	root.Flags().Bool("trim-overrun", false, "Hard-trim video that outruns the voiceover")
	root.Flags().Bool("review", false, "Reject clips with black or frozen frames before trimming")
	root.Flags().Bool("verbose", false, "Debug logging")

	// Hidden tuning flags (internal)
	root.Flags().Float64("trim-floor", 2.5, "Minimum clip duration seconds")
	root.Flags().Int("trim-timeout", 300, "Per-trim transcode timeout seconds")
	root.Flags().Float64("probe-fallback", 4, "Assumed source seconds when probing fails (0 disables)")
	root.Flags().Bool("validate-audio", true, "Check the mixed output for silence and clipping")
	for _, name := range []string{"trim-floor", "trim-timeout", "probe-fallback", "validate-audio"} {
		_ = root.Flags().MarkHidden(name)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
