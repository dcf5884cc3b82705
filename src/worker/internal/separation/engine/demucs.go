package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/apex/log"
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/executor"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

var _ Engine = DemucsEngine{}

// DemucsEngine drives the demucs binary. Demucs writes its stems to
// <outputDir>/<model>/<track name>/, and it normalizes the track folder name
// from the input basename in ways the caller can't predict, so the track dir
// is resolved by scanning for the marker stem file instead of assuming a name.
func NewDemucsEngine(binPath string, model string, markerRole string, commandExecutor executor.Executor) DemucsEngine {
	return DemucsEngine{
		binPath:         binPath,
		model:           model,
		markerFileName:  StemFileName(markerRole),
		commandExecutor: commandExecutor,
	}
}

type DemucsEngine struct {
	binPath         string
	model           string
	markerFileName  string
	commandExecutor executor.Executor
}

func (d DemucsEngine) Separate(inputPath string, outputDir string, params Params) (Output, error) {
	logger := log.WithFields(log.Fields{
		"input_path": inputPath,
		"output_dir": outputDir,
		"model":      d.model,
	})

	errctx := cerr.Fields(cerr.F{
		"input_path": inputPath,
		"output_dir": outputDir,
		"model":      d.model,
	})

	args := []string{
		"-n", d.model,
		"-o", outputDir,
		"--overlap", strconv.FormatFloat(params.Overlap, 'f', -1, 64),
		"--shifts", strconv.Itoa(params.Shifts),
		inputPath,
	}

	logger.Info("Running demucs command")

	cmd := d.commandExecutor.Command(d.binPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		wrapped := errctx.Field("demucs_output", string(output)).
			Wrap(err).
			Error(fmt.Sprintf("Error occurred while running demucs: %s", string(output)))
		return Output{}, mark.Wrap(wrapped, ErrEngineFailed, "Demucs invocation failed")
	}

	logger.Debug(string(output))
	logger.Info("Finished demucs command")

	trackDir, err := d.resolveTrackDir(outputDir)
	if err != nil {
		return Output{}, errctx.Wrap(err).Error("Failed to resolve the demucs output track dir")
	}

	files, err := listFiles(trackDir)
	if err != nil {
		return Output{}, errctx.Wrap(err).Error("Failed to list the demucs output files")
	}

	return Output{
		TrackDir: trackDir,
		Files:    files,
	}, nil
}

// resolveTrackDir searches one level of subdirectories under the model dir,
// in lexical order, for the first one containing the marker stem file.
func (d DemucsEngine) resolveTrackDir(outputDir string) (string, error) {
	modelDir := filepath.Join(outputDir, d.model)

	dirEntries, err := os.ReadDir(modelDir)
	if err != nil {
		return "", mark.Wrap(err, ErrOutputNotFound,
			fmt.Sprintf("Expected model subdir %s was not readable", modelDir))
	}

	sort.Slice(dirEntries, func(i, j int) bool {
		return dirEntries[i].Name() < dirEntries[j].Name()
	})

	for _, dirEntry := range dirEntries {
		if !dirEntry.IsDir() {
			continue
		}

		trackDir := filepath.Join(modelDir, dirEntry.Name())
		markerPath := filepath.Join(trackDir, d.markerFileName)
		if _, err := os.Stat(markerPath); err == nil {
			return trackDir, nil
		}
	}

	return "", mark.Message(ErrOutputNotFound,
		fmt.Sprintf("No track dir containing %s found under %s", d.markerFileName, modelDir))
}

func listFiles(dir string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, cerr.Field("dir", dir).Wrap(err).Error("Failed to read the directory")
	}

	files := []string{}
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			continue
		}

		files = append(files, filepath.Join(dir, dirEntry.Name()))
	}

	return files, nil
}
