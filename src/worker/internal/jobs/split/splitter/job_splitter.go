package splitter

import (
	"context"

	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/storagepath"
)

var splitDirNames = map[jobentity.Variant]string{
	jobentity.FourStemVariant: "4stems",
	jobentity.MelodyVariant:   "melodies",
	jobentity.VocalsVariant:   "vocals",
}

type JobSplitter struct {
	jobStore      jobentity.Store
	splitter      FileSplitter
	pathGenerator storagepath.Generator
}

func NewJobSplitter(splitter FileSplitter, jobStore jobentity.Store, pathGenerator storagepath.Generator) JobSplitter {
	return JobSplitter{
		jobStore:      jobStore,
		splitter:      splitter,
		pathGenerator: pathGenerator,
	}
}

func (j JobSplitter) SplitJob(ctx context.Context, jobID string, savedOriginalURL string) (SplitResult, error) {
	errctx := cerr.Fields(cerr.F{
		"job_id":             jobID,
		"saved_original_url": savedOriginalURL,
	})

	job, err := j.jobStore.GetJob(ctx, jobID)
	if err != nil {
		return SplitResult{}, errctx.Wrap(err).Error("Failed to get the job from the job store")
	}

	errctx = errctx.Field("variant", job.Variant)

	destPath, err := j.generatePath(jobID, job.Variant)
	if err != nil {
		return SplitResult{}, errctx.
			Wrap(err).Error("Failed to generate a destination path for the stems")
	}

	return j.splitter.SplitFile(ctx, savedOriginalURL, destPath, job.Variant)
}

func (j JobSplitter) generatePath(jobID string, variant jobentity.Variant) (string, error) {
	splitDir, ok := splitDirNames[variant]
	if !ok {
		return "", cerr.Field("variant", variant).Error("Invalid job variant provided")
	}

	return j.pathGenerator.GeneratePath(jobID, splitDir), nil
}
