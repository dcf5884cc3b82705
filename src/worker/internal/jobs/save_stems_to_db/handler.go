package save_stems_to_db

import (
	"context"
	"encoding/json"

	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/job_message"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const JobType string = "save_stems_to_db"
const ErrorMessage string = "Failed to save stem URLs to database"

type JobParams struct {
	job_message.JobIdentifier
	StemURLs     map[string]string `json:"stem_urls"`
	MissingStems []string          `json:"missing_stems,omitempty"`
}

//counterfeiter:generate . SaveStemsJobHandler
type SaveStemsJobHandler interface {
	HandleSaveStemsToDBJob(message []byte) error
}

func NewJobHandler(jobStore jobentity.Store) JobHandler {
	return JobHandler{
		jobStore: jobStore,
	}
}

type JobHandler struct {
	jobStore jobentity.Store
}

func (s JobHandler) HandleSaveStemsToDBJob(message []byte) error {
	params, err := unmarshalMessage(message)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	errctx := cerr.Field("job_params", params)

	updater := func(job jobentity.SplitJob) (jobentity.SplitJob, error) {
		if job.Status != jobentity.ProcessingStatus {
			return jobentity.SplitJob{}, errctx.
				Error("Job is not in processing status, refusing to finalize it")
		}

		// a run that came back with unsatisfied roles still delivered
		// something, it just gets flagged as degraded instead of done
		if len(params.MissingStems) > 0 {
			job.Status = jobentity.DegradedStatus
			job.MissingStems = params.MissingStems
		} else {
			job.Status = jobentity.DoneStatus
		}

		job.StemURLs = params.StemURLs

		return job, nil
	}

	err = s.jobStore.UpdateJob(context.Background(), params.JobID, updater)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to update the job")
	}

	return nil
}

func unmarshalMessage(message []byte) (JobParams, error) {
	params := JobParams{}
	err := json.Unmarshal(message, &params)
	if err != nil {
		return JobParams{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	errctx := cerr.Field("job_params", params)

	if params.JobID == "" {
		return JobParams{}, errctx.Error("Missing job ID")
	}

	// a degraded run can come back with no stems at all, but then it must
	// say which ones are missing
	if len(params.StemURLs) == 0 && len(params.MissingStems) == 0 {
		return JobParams{}, errctx.Error("Missing stem URLs")
	}

	return params, nil
}
