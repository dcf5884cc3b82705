package dummy

import (
	"context"
	"sync"

	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

var _ jobentity.Store = &JobStore{}

func NewDummyJobStore() *JobStore {
	return &JobStore{
		Unavailable: false,
		State:       make(map[string]jobentity.SplitJob),
	}
}

type JobStore struct {
	Unavailable bool
	State       map[string]jobentity.SplitJob
	mutex       sync.RWMutex
}

func (j *JobStore) GetJob(ctx context.Context, id string) (jobentity.SplitJob, error) {
	if j.Unavailable {
		return jobentity.SplitJob{}, NetworkFailure
	}

	j.mutex.RLock()
	defer j.mutex.RUnlock()

	job, ok := j.State[id]
	if !ok {
		return jobentity.SplitJob{}, NotFound
	}

	return job, nil
}

func (j *JobStore) SetJob(ctx context.Context, job jobentity.SplitJob) error {
	if j.Unavailable {
		return NetworkFailure
	}

	j.mutex.Lock()
	defer j.mutex.Unlock()

	j.State[job.ID] = job
	return nil
}

func (j *JobStore) UpdateJob(ctx context.Context, id string, updater jobentity.Updater) error {
	if j.Unavailable {
		return NetworkFailure
	}

	job, err := j.GetJob(ctx, id)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to get job from DB")
	}

	updatedJob, err := updater(job)
	if err != nil {
		return cerr.Wrap(err).Error("Job update function failed")
	}

	return j.SetJob(ctx, updatedJob)
}
