package download

import (
	"fmt"

	"github.com/apex/log"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/executor"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

func NewYoutubeDLer(binPath string, commandExecutor executor.Executor) YoutubeDLer {
	return YoutubeDLer{
		binPath:         binPath,
		commandExecutor: commandExecutor,
	}
}

type YoutubeDLer struct {
	binPath         string
	commandExecutor executor.Executor
}

func (y YoutubeDLer) Download(sourceURL string, outputPath string) error {
	logger := log.WithFields(log.Fields{
		"source_url":  sourceURL,
		"output_path": outputPath,
	})

	args := []string{"--extract-audio", "--audio-format", "wav", "-o", outputPath, sourceURL}

	errctx := cerr.Field("youtubedl_bin_path", y.binPath).Field("youtubedl_args", args)

	logger.Info("Running youtube-dl command")

	cmd := y.commandExecutor.Command(y.binPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errctx.Field("youtubedl_output", string(output)).
			Wrap(err).
			Error(fmt.Sprintf("Error occurred while running youtube-dl: %s", string(output)))
	}

	logger.Debug(string(output))
	logger.Info("Finished youtube-dl command")

	return nil
}
