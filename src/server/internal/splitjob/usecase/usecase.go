package jobusecase

import (
	"context"
	"encoding/json"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-splitter-be/src/server/internal/errors/api"
	joberrors "github.com/veedubyou/stem-splitter-be/src/server/internal/splitjob/errors"
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/rabbitmq"
	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	jobstorage "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/storage"
)

type Usecase struct {
	db        jobentity.Store
	publisher rabbitmq.Publisher
}

func NewUsecase(db jobentity.Store, publisher rabbitmq.Publisher) Usecase {
	return Usecase{
		db:        db,
		publisher: publisher,
	}
}

func (u Usecase) CreateJob(ctx context.Context, originalURL string, variant string) (jobentity.SplitJob, *api.Error) {
	if originalURL == "" {
		return jobentity.SplitJob{}, api.CommitError(
			errors.New("No original URL provided"),
			joberrors.BadJobDataCode,
			"The job request is missing the original audio URL")
	}

	if !jobentity.ValidVariant(variant) {
		return jobentity.SplitJob{}, api.CommitError(
			errors.Newf("Unrecognized variant %s", variant),
			joberrors.BadJobDataCode,
			"The job request names an unrecognized split variant")
	}

	job := jobentity.NewSplitJob(originalURL, jobentity.Variant(variant))

	if err := u.db.SetJob(ctx, job); err != nil {
		err = errors.Wrap(err, "Failed to save the new job")
		return jobentity.SplitJob{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Unknown error: Failed to save the split job")
	}

	if err := u.publishStartJob(job.ID); err != nil {
		err = errors.Wrap(err, "Failed to queue the new job")
		u.markJobUnqueued(job.ID, err)
		return jobentity.SplitJob{}, api.CommitError(err,
			joberrors.JobUnqueuedCode,
			"The job was saved but could not be queued for processing")
	}

	return job, nil
}

func (u Usecase) GetJob(ctx context.Context, jobID string) (jobentity.SplitJob, *api.Error) {
	job, err := u.db.GetJob(ctx, jobID)
	if err != nil {
		err = errors.Wrap(err, "Failed to get job from DB")
		switch {
		case markers.Is(err, jobstorage.JobNotFound):
			return jobentity.SplitJob{}, api.CommitError(err,
				joberrors.JobNotFoundCode,
				"No split job exists for this ID")

		case markers.Is(err, jobstorage.JobUnmarshalMark):
			fallthrough
		case markers.Is(err, jobstorage.DefaultErrorMark):
			fallthrough
		default:
			return jobentity.SplitJob{}, api.CommitError(err,
				api.DefaultErrorCode,
				"Unknown Error: Failed to fetch the split job")
		}
	}

	return job, nil
}

func (u Usecase) publishStartJob(jobID string) error {
	// the literal type and shape are shared with the worker over the wire,
	// not through code, since its handlers live in its own internal tree
	jsonBytes, err := json.Marshal(struct {
		JobID string `json:"job_id"`
	}{
		JobID: jobID,
	})

	if err != nil {
		return errors.Wrap(err, "Failed to marshal the job ID for the queue msg")
	}

	publishMsg := amqp091.Publishing{
		Type: "start_job",
		Body: jsonBytes,
	}

	err = u.publisher.Publish(publishMsg)
	if err != nil {
		return errors.Wrap(err, "Failed to publish message to rabbitmq")
	}

	return nil
}

func (u Usecase) markJobUnqueued(jobID string, publishErr error) {
	updater := func(job jobentity.SplitJob) (jobentity.SplitJob, error) {
		job.Status = jobentity.ErrorStatus
		job.ErrorMessage = publishErr.Error()
		return job, nil
	}

	err := u.db.UpdateJob(context.Background(), jobID, updater)
	if err != nil {
		log.WithField("job_id", jobID).
			Error("Failed to mark the unqueued job in DB")
		return
	}
}
