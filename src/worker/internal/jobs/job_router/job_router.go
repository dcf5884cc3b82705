package job_router

import (
	"context"
	"encoding/json"

	"github.com/rabbitmq/amqp091-go"
	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/rabbitmq"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/job_message"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/save_stems_to_db"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/split"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/start"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/transfer"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

// errorMessages maps a failed message type to the user facing explanation
// persisted on the job.
var errorMessages = map[string]string{
	start.JobType:            start.ErrorMessage,
	transfer.JobType:         transfer.ErrorMessage,
	split.JobType:            split.ErrorMessage,
	save_stems_to_db.JobType: save_stems_to_db.ErrorMessage,
}

func NewJobRouter(
	jobStore jobentity.Store,
	publisher rabbitmq.Publisher,
	startHandler start.StartJobHandler,
	transferHandler transfer.TransferJobHandler,
	splitHandler split.SplitJobHandler,
	saveStemsHandler save_stems_to_db.SaveStemsJobHandler,
) JobRouter {
	return JobRouter{
		jobStore:         jobStore,
		publisher:        publisher,
		startHandler:     startHandler,
		transferHandler:  transferHandler,
		splitHandler:     splitHandler,
		saveStemsHandler: saveStemsHandler,
	}
}

// JobRouter dispatches queue messages to their stage handler and, on
// success, publishes the next stage's message. A stage failure is persisted
// on the job so callers polling it see the error, then propagated so the
// message gets nacked.
type JobRouter struct {
	jobStore         jobentity.Store
	publisher        rabbitmq.Publisher
	startHandler     start.StartJobHandler
	transferHandler  transfer.TransferJobHandler
	splitHandler     split.SplitJobHandler
	saveStemsHandler save_stems_to_db.SaveStemsJobHandler
}

func (j JobRouter) HandleMessage(message amqp091.Delivery) error {
	err := j.routeMessage(message)
	if err != nil {
		j.markJobError(message, err)
		return cerr.Field("message_type", message.Type).
			Wrap(err).Error("Failed to handle the message")
	}

	return nil
}

func (j JobRouter) routeMessage(message amqp091.Delivery) error {
	switch message.Type {
	case start.JobType:
		return j.handleStartJob(message.Body)
	case transfer.JobType:
		return j.handleTransferJob(message.Body)
	case split.JobType:
		return j.handleSplitJob(message.Body)
	case save_stems_to_db.JobType:
		return j.saveStemsHandler.HandleSaveStemsToDBJob(message.Body)
	default:
		return cerr.Field("message_type", message.Type).
			Error("Message type matches no known job")
	}
}

func (j JobRouter) handleStartJob(message []byte) error {
	params, err := j.startHandler.HandleStartJob(message)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to handle the start job")
	}

	nextParams := transfer.JobParams{
		JobIdentifier: params.JobIdentifier,
	}

	return j.publishNextJob(transfer.JobType, nextParams)
}

func (j JobRouter) handleTransferJob(message []byte) error {
	params, savedOriginalURL, err := j.transferHandler.HandleTransferJob(message)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to handle the transfer job")
	}

	nextParams := split.JobParams{
		JobIdentifier:    params.JobIdentifier,
		SavedOriginalURL: savedOriginalURL,
	}

	return j.publishNextJob(split.JobType, nextParams)
}

func (j JobRouter) handleSplitJob(message []byte) error {
	params, result, err := j.splitHandler.HandleSplitJob(message)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to handle the split job")
	}

	nextParams := save_stems_to_db.JobParams{
		JobIdentifier: params.JobIdentifier,
		StemURLs:      result.StemPaths,
		MissingStems:  result.MissingStems,
	}

	return j.publishNextJob(save_stems_to_db.JobType, nextParams)
}

func (j JobRouter) publishNextJob(jobType string, params any) error {
	jsonBytes, err := json.Marshal(params)
	if err != nil {
		return cerr.Field("job_type", jobType).
			Wrap(err).Error("Failed to marshal the next job params")
	}

	message := amqp091.Publishing{
		Type: jobType,
		Body: jsonBytes,
	}

	if err := j.publisher.Publish(message); err != nil {
		return cerr.Field("job_type", jobType).
			Wrap(err).Error("Failed to publish the next job message")
	}

	return nil
}

// markJobError is best effort: the job may not even be identifiable if the
// message body was malformed.
func (j JobRouter) markJobError(message amqp091.Delivery, handleErr error) {
	identifier := job_message.JobIdentifier{}
	if err := json.Unmarshal(message.Body, &identifier); err != nil || identifier.JobID == "" {
		cerr.Log(cerr.Field("message_type", message.Type).
			Error("Could not identify the job of a failed message"))
		return
	}

	errorMessage, ok := errorMessages[message.Type]
	if !ok {
		errorMessage = "Failed to process the split job"
	}

	updater := func(job jobentity.SplitJob) (jobentity.SplitJob, error) {
		job.Status = jobentity.ErrorStatus
		job.ErrorMessage = errorMessage

		return job, nil
	}

	if err := j.jobStore.UpdateJob(context.Background(), identifier.JobID, updater); err != nil {
		cerr.Log(cerr.Field("job_id", identifier.JobID).
			Wrap(err).Error("Failed to mark the job as errored"))
	}
}
