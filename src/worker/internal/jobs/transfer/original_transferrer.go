package transfer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apex/log"
	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	cloudstorage "github.com/veedubyou/stem-splitter-be/src/worker/internal/cloud_storage/entity"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/transfer/download"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/storagepath"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/working_dir"
)

const originalLeafPath = "original/original.wav"

func NewOriginalTransferrer(
	downloader download.SelectDLer,
	jobStore jobentity.Store,
	fileStore cloudstorage.FileStore,
	pathGenerator storagepath.Generator,
	workingDirStr string,
) (OriginalTransferrer, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return OriginalTransferrer{}, cerr.Field("working_dir_str", workingDirStr).
			Wrap(err).Error("Failed to create working dir")
	}

	return OriginalTransferrer{
		fileStore:     fileStore,
		jobStore:      jobStore,
		downloader:    downloader,
		pathGenerator: pathGenerator,
		workingDir:    workingDir,
	}, nil
}

// OriginalTransferrer pulls the job's original audio from wherever it lives
// and lands a copy in the file store, so later stages only ever read from
// storage the worker controls.
type OriginalTransferrer struct {
	fileStore     cloudstorage.FileStore
	jobStore      jobentity.Store
	downloader    download.SelectDLer
	pathGenerator storagepath.Generator
	workingDir    working_dir.WorkingDir
}

func (t OriginalTransferrer) Transfer(jobID string) (string, error) {
	errctx := cerr.Field("job_id", jobID)

	job, err := t.jobStore.GetJob(context.Background(), jobID)
	if err != nil {
		return "", errctx.Wrap(err).Error("Failed to get the job from the job store")
	}

	tempFilePath, cleanUpTempDir, err := t.makeTempOutFilePath()
	if err != nil {
		return "", errctx.Wrap(err).Error("Failed to make a temp file path")
	}

	defer cleanUpTempDir()

	err = t.downloader.Download(job.OriginalURL, tempFilePath)
	if err != nil {
		return "", errctx.Field("original_url", job.OriginalURL).
			Wrap(err).Error("Failed to download the original audio")
	}

	log.Info("Reading the downloaded file to memory")
	fileContent, err := os.ReadFile(tempFilePath)
	if err != nil {
		return "", errctx.Wrap(err).Error("Failed to read the downloaded original audio")
	}

	destinationURL := t.pathGenerator.GeneratePath(jobID, originalLeafPath)

	log.Info("Writing the original audio to the file store")
	err = t.fileStore.WriteFile(context.Background(), destinationURL, fileContent)
	if err != nil {
		return "", errctx.Wrap(err).Error("Failed to write the original audio to the file store")
	}

	return destinationURL, nil
}

func (t OriginalTransferrer) makeTempOutFilePath() (string, func(), error) {
	log.Info("Creating a temp dir to hold the downloaded original")
	tempDir, err := os.MkdirTemp(t.workingDir.TempDir(), "transfer-*")
	if err != nil {
		return "", nil, cerr.Field("temp_dir", t.workingDir.TempDir()).
			Wrap(err).Error("Failed to create a temp dir to download to")
	}

	tempDir, err = filepath.Abs(tempDir)
	if err != nil {
		return "", nil, cerr.Field("temp_dir", tempDir).
			Wrap(err).Error("Failed to turn the temp dir into absolute format")
	}

	outputPath := filepath.Join(tempDir, "original.wav")

	return outputPath, func() { os.RemoveAll(tempDir) }, nil
}
