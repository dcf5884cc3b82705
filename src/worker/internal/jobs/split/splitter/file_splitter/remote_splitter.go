package file_splitter

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apex/log"
	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	cloudstorage "github.com/veedubyou/stem-splitter-be/src/worker/internal/cloud_storage/entity"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/split/splitter"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/working_dir"
)

var _ splitter.FileSplitter = RemoteFileSplitter{}

func NewRemoteFileSplitter(workingDirStr string, fileStore cloudstorage.FileStore, localSplitter LocalFileSplitter) (RemoteFileSplitter, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return RemoteFileSplitter{}, cerr.Wrap(err).Error("Failed to convert working dir to absolute format")
	}

	return RemoteFileSplitter{
		workingDir:    workingDir,
		fileStore:     fileStore,
		localSplitter: localSplitter,
	}, nil
}

// RemoteFileSplitter bridges storage URLs to the local splitter: it stages
// the original into a scratch dir, splits it locally, and uploads the
// resulting stems under the destination URL.
type RemoteFileSplitter struct {
	workingDir    working_dir.WorkingDir
	fileStore     cloudstorage.FileStore
	localSplitter LocalFileSplitter
}

func (r RemoteFileSplitter) SplitFile(ctx context.Context, originalURL string, stemsDestURL string, variant jobentity.Variant) (splitter.SplitResult, error) {
	errctx := cerr.Fields(cerr.F{
		"original_url":   originalURL,
		"stems_dest_url": stemsDestURL,
	})

	tempDir, err := os.MkdirTemp(r.workingDir.TempDir(), "split-*")
	if err != nil {
		return splitter.SplitResult{}, errctx.Wrap(err).Error("Failed to create a scratch dir for the split")
	}

	defer os.RemoveAll(tempDir)

	localOriginalPath, err := r.stageOriginal(ctx, originalURL, tempDir)
	if err != nil {
		return splitter.SplitResult{}, errctx.Wrap(err).Error("Failed to stage the original audio locally")
	}

	localResult, err := r.localSplitter.SplitFile(ctx, localOriginalPath, filepath.Join(tempDir, "stems"), variant)
	if err != nil {
		return splitter.SplitResult{}, errctx.Wrap(err).Error("Failed to split the staged original")
	}

	remotePaths := splitter.StemFilePaths{}
	for stem, localPath := range localResult.StemPaths {
		remoteURL := stemsDestURL + "/" + filepath.Base(localPath)

		contents, err := os.ReadFile(localPath)
		if err != nil {
			return splitter.SplitResult{}, errctx.Field("stem", stem).
				Wrap(err).Error("Failed to read a produced stem file")
		}

		log.WithFields(log.Fields{
			"stem":       stem,
			"remote_url": remoteURL,
		}).Info("Uploading stem to the file store")

		if err := r.fileStore.WriteFile(ctx, remoteURL, contents); err != nil {
			return splitter.SplitResult{}, errctx.Field("stem", stem).
				Wrap(err).Error("Failed to upload a produced stem file")
		}

		remotePaths[stem] = remoteURL
	}

	return splitter.SplitResult{
		StemPaths:    remotePaths,
		MissingStems: localResult.MissingStems,
	}, nil
}

func (r RemoteFileSplitter) stageOriginal(ctx context.Context, originalURL string, tempDir string) (string, error) {
	contents, err := r.fileStore.GetFile(ctx, originalURL)
	if err != nil {
		return "", cerr.Field("original_url", originalURL).
			Wrap(err).Error("Failed to fetch the original audio from the file store")
	}

	localPath := filepath.Join(tempDir, "original.wav")
	if err := os.WriteFile(localPath, contents, 0o644); err != nil {
		return "", cerr.Field("local_path", localPath).
			Wrap(err).Error("Failed to write the original audio locally")
	}

	return localPath, nil
}
