package joberrors

import "github.com/veedubyou/stem-splitter-be/src/server/internal/errors/api"

const (
	JobNotFoundCode = api.ErrorCode("job_not_found")
	BadJobDataCode  = api.ErrorCode("bad_job_data")
	JobUnqueuedCode = api.ErrorCode("job_unqueued")
)
