package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/executor"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/working_dir"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/pipeline"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/separation/engine"
)

func newSplitCommand(opts *commandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "split <input.wav>",
		Short: "Split a track into vocals, drums, bass and other stems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the plain split writes its stems directly into the out dir
			return runVariant(cmd, opts, args[0], pipeline.FourStemPlan, opts.outDir)
		},
	}
}

func newMelodiesCommand(opts *commandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "melodies <input.wav>",
		Short: "Extract guitar and piano stems from a melody track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVariant(cmd, opts, args[0], pipeline.MelodyPlan, filepath.Join(opts.outDir, "melodies-sep"))
		},
	}
}

func newVocalsCommand(opts *commandOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "vocals <input.wav>",
		Short: "Split a vocal track into lead and backing stems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVariant(cmd, opts, args[0], pipeline.VocalsPlan, filepath.Join(opts.outDir, "vocals-sep"))
		},
	}
}

func runVariant(cmd *cobra.Command, opts *commandOptions, inputPath string, planConstructor func(pipeline.EngineSet) pipeline.Plan, destDir string) error {
	absInputPath, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}

	if _, err := os.Stat(absInputPath); err != nil {
		return fmt.Errorf("inspect input file: %w", err)
	}

	workingDir, err := working_dir.NewWorkingDir(scratchDir(opts))
	if err != nil {
		return fmt.Errorf("prepare scratch dir: %w", err)
	}

	plan := planConstructor(newEngineSet(opts))
	orchestrator := pipeline.NewOrchestrator(plan, opts.params(), workingDir)

	result, err := orchestrator.Run(absInputPath, destDir)
	if err != nil {
		return err
	}

	if result.Partial() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: missing stems: %s\n", strings.Join(result.MissingRoles, ", "))
	}

	// callers scripting around this tool key off the ok sentinel
	fmt.Fprintln(cmd.OutOrStdout(), "ok")

	return nil
}

func scratchDir(opts *commandOptions) string {
	if opts.workDir != "" {
		return opts.workDir
	}

	return filepath.Join(os.TempDir(), "stemsplit")
}

// newEngineSet only resolves binaries on demand: a plan that never runs
// demucs shouldn't fail because demucs isn't installed.
func newEngineSet(opts *commandOptions) pipeline.EngineSet {
	binaryExecutor := executor.BinaryFileExecutor{}

	return pipeline.EngineSet{
		FourStem: lazyEngine(func() engine.Engine {
			return engine.NewDemucsEngine(opts.demucsBinPath(), engine.FourStemModel, engine.FourStemMarkerRole, binaryExecutor)
		}),
		SixStem: lazyEngine(func() engine.Engine {
			return engine.NewDemucsEngine(opts.demucsBinPath(), engine.SixStemModel, engine.SixStemMarkerRole, binaryExecutor)
		}),
		Karaoke: lazyEngine(func() engine.Engine {
			return engine.NewRoformerEngine(opts.audioSeparatorBinPath(), engine.KaraokeModel, binaryExecutor)
		}),
	}
}

type lazyEngine func() engine.Engine

func (l lazyEngine) Separate(inputPath string, outputDir string, params engine.Params) (engine.Output, error) {
	return l().Separate(inputPath, outputDir, params)
}
