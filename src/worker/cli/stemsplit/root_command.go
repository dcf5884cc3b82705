package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/veedubyou/stem-splitter-be/src/shared/config"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/pipeline"
)

type commandOptions struct {
	outDir             string
	workDir            string
	demucsBin          string
	audioSeparatorBin  string
	overlap            float64
	shifts             int
	cleanupEnabled     bool
	cleanupAlpha       float64
	minDurationSeconds float64
}

func (o *commandOptions) params() pipeline.Params {
	return pipeline.Params{
		Overlap:        o.overlap,
		Shifts:         o.shifts,
		CleanupEnabled: o.cleanupEnabled,
		CleanupAlpha:   o.cleanupAlpha,
		MinDuration:    time.Duration(o.minDurationSeconds * float64(time.Second)),
	}
}

// demucsBinPath resolves the demucs binary, falling back to PATH lookup
// when the flag wasn't given.
func (o *commandOptions) demucsBinPath() string {
	if o.demucsBin != "" {
		return o.demucsBin
	}

	return config.DemucsPath()
}

func (o *commandOptions) audioSeparatorBinPath() string {
	if o.audioSeparatorBin != "" {
		return o.audioSeparatorBin
	}

	return config.AudioSeparatorPath()
}

func newRootCommand() *cobra.Command {
	defaults := pipeline.DefaultParams()

	opts := &commandOptions{}

	rootCmd := &cobra.Command{
		Use:           "stemsplit",
		Short:         "Split audio files into stems",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.outDir, "out", "o", ".", "directory to write the stems into")
	flags.StringVar(&opts.workDir, "work-dir", "", "scratch directory for intermediate files (default: system temp dir)")
	flags.StringVar(&opts.demucsBin, "demucs-bin", "", "path to the demucs binary (default: look up on PATH)")
	flags.StringVar(&opts.audioSeparatorBin, "audio-separator-bin", "", "path to the audio-separator binary (default: look up on PATH)")
	flags.Float64Var(&opts.overlap, "overlap", defaults.Overlap, "engine blending overlap")
	flags.IntVar(&opts.shifts, "shifts", defaults.Shifts, "engine averaging pass count")
	flags.BoolVar(&opts.cleanupEnabled, "cleanup", defaults.CleanupEnabled, "attenuate leaked components in the refined stem")
	flags.Float64Var(&opts.cleanupAlpha, "cleanup-alpha", defaults.CleanupAlpha, "attenuation coefficient for the cleanup pass")
	flags.Float64Var(&opts.minDurationSeconds, "min-duration", defaults.MinDuration.Seconds(), "minimum input length in seconds, shorter inputs get padded")

	rootCmd.AddCommand(
		newSplitCommand(opts),
		newMelodiesCommand(opts),
		newVocalsCommand(opts),
	)

	return rootCmd
}
