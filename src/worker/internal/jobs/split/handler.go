package split

import (
	"context"
	"encoding/json"

	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/job_message"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/split/splitter"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const JobType string = "split_job"
const ErrorMessage string = "Failed to split the original audio into stems"

//counterfeiter:generate . SplitJobHandler
type SplitJobHandler interface {
	HandleSplitJob(message []byte) (JobParams, splitter.SplitResult, error)
}

type JobParams struct {
	job_message.JobIdentifier
	SavedOriginalURL string `json:"saved_original_url"`
}

func NewJobHandler(jobSplitter splitter.JobSplitter) JobHandler {
	return JobHandler{
		jobSplitter: jobSplitter,
	}
}

type JobHandler struct {
	jobSplitter splitter.JobSplitter
}

func (s JobHandler) HandleSplitJob(message []byte) (JobParams, splitter.SplitResult, error) {
	params, err := unmarshalMessage(message)
	if err != nil {
		return JobParams{}, splitter.SplitResult{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	errctx := cerr.Field("job_id", params.JobID).
		Field("saved_original_url", params.SavedOriginalURL)

	result, err := s.jobSplitter.SplitJob(context.Background(), params.JobID, params.SavedOriginalURL)
	if err != nil {
		return JobParams{}, splitter.SplitResult{}, errctx.Wrap(err).Error("Failed to split the job's audio")
	}

	return params, result, nil
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

	if params.SavedOriginalURL == "" {
		return JobParams{}, errctx.Error("Missing saved original URL")
	}

	return params, nil
}
