package transfer

import (
	"encoding/json"

	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/job_message"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const JobType string = "transfer_original"
const ErrorMessage string = "Failed to transfer the original audio to storage"

//counterfeiter:generate . TransferJobHandler
type TransferJobHandler interface {
	HandleTransferJob(message []byte) (JobParams, string, error)
}

type JobParams struct {
	job_message.JobIdentifier
}

func NewJobHandler(transferrer OriginalTransferrer) JobHandler {
	return JobHandler{
		transferrer: transferrer,
	}
}

type JobHandler struct {
	transferrer OriginalTransferrer
}

func (d JobHandler) HandleTransferJob(message []byte) (JobParams, string, error) {
	params, err := unmarshalMessage(message)
	if err != nil {
		return JobParams{}, "", cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	savedOriginalURL, err := d.transferrer.Transfer(params.JobID)
	if err != nil {
		return JobParams{}, "", cerr.Field("job_id", params.JobID).
			Wrap(err).Error("Failed to transfer the original audio")
	}

	return params, savedOriginalURL, nil
}

func unmarshalMessage(message []byte) (JobParams, error) {
	params := JobParams{}
	err := json.Unmarshal(message, &params)
	if err != nil {
		return JobParams{}, cerr.Wrap(err).Error("Failed to unmarshal message JSON")
	}

	if params.JobID == "" {
		return JobParams{}, cerr.Field("job_params", params).Error("Missing job ID")
	}

	return params, nil
}
