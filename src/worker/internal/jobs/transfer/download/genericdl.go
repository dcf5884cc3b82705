package download

import (
	"io"
	"net/http"
	"os"

	"github.com/apex/log"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

func NewGenericDLer() GenericDLer {
	return GenericDLer{}
}

// GenericDLer fetches a source file over plain HTTP, for originals that are
// already hosted as direct audio links.
type GenericDLer struct{}

func (g GenericDLer) Download(sourceURL string, outputPath string) error {
	logger := log.WithFields(log.Fields{
		"source_url":  sourceURL,
		"output_path": outputPath,
	})

	errctx := cerr.Field("source_url", sourceURL).Field("output_path", outputPath)

	logger.Info("Downloading the source file over HTTP")

	response, err := http.Get(sourceURL)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to fetch the source URL")
	}

	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return errctx.Field("status_code", response.StatusCode).
			Error("Source URL returned a non-success status")
	}

	outputFile, err := os.Create(outputPath)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to create the output file")
	}

	defer outputFile.Close()

	if _, err := io.Copy(outputFile, response.Body); err != nil {
		return errctx.Wrap(err).Error("Failed to write the downloaded contents")
	}

	logger.Info("Finished downloading the source file")

	return nil
}
