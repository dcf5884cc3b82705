package dummy

import (
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/errors/mark"
	jobstorage "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/storage"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

var NetworkFailure = cerr.Error("Dummy network failure")
var NotFound = mark.Message(jobstorage.JobNotFound, "Dummy entry not found")
