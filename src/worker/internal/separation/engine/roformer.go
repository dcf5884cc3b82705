package engine

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/executor"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

var _ Engine = RoformerEngine{}

// RoformerEngine drives the audio-separator binary with a roformer model
// checkpoint. Unlike demucs it writes its outputs flat into the output dir,
// under names the model controls, so the produced files have to be classified
// by the caller rather than picked up by role name.
func NewRoformerEngine(binPath string, modelFileName string, commandExecutor executor.Executor) RoformerEngine {
	return RoformerEngine{
		binPath:         binPath,
		modelFileName:   modelFileName,
		commandExecutor: commandExecutor,
	}
}

type RoformerEngine struct {
	binPath         string
	modelFileName   string
	commandExecutor executor.Executor
}

func (r RoformerEngine) Separate(inputPath string, outputDir string, params Params) (Output, error) {
	logger := log.WithFields(log.Fields{
		"input_path": inputPath,
		"output_dir": outputDir,
		"model":      r.modelFileName,
	})

	errctx := cerr.Fields(cerr.F{
		"input_path": inputPath,
		"output_dir": outputDir,
		"model":      r.modelFileName,
	})

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return Output{}, errctx.Wrap(err).Error("Failed to create the separator output dir")
	}

	args := []string{
		"--model_filename", r.modelFileName,
		"--output_dir", outputDir,
		"--output_format", "WAV",
		inputPath,
	}

	logger.Info("Running audio-separator command")

	cmd := r.commandExecutor.Command(r.binPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		wrapped := errctx.Field("separator_output", string(output)).
			Wrap(err).
			Error(fmt.Sprintf("Error occurred while running audio-separator: %s", string(output)))
		return Output{}, mark.Wrap(wrapped, ErrEngineFailed, "Audio-separator invocation failed")
	}

	logger.Debug(string(output))
	logger.Info("Finished audio-separator command")

	files, err := listFiles(outputDir)
	if err != nil {
		return Output{}, errctx.Wrap(err).Error("Failed to list the separator output files")
	}

	if len(files) == 0 {
		return Output{}, mark.Message(ErrOutputNotFound,
			fmt.Sprintf("Audio-separator produced no output files in %s", outputDir))
	}

	return Output{
		TrackDir: outputDir,
		Files:    files,
	}, nil
}
