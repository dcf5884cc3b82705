package jobstorage

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/guregu/dynamo"
	dynamolib "github.com/veedubyou/stem-splitter-be/src/shared/lib/dynamo"
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/errors/mark"
	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
)

const SplitJobsTable = "SplitJobs"

var _ jobentity.Store = DB{}

type DB struct {
	dynamoDB dynamolib.DynamoDBWrapper
}

func NewDB(dynamoDB dynamolib.DynamoDBWrapper) DB {
	return DB{
		dynamoDB: dynamoDB,
	}
}

func (d DB) GetJob(ctx context.Context, id string) (jobentity.SplitJob, error) {
	if id == "" {
		return jobentity.SplitJob{}, mark.Message(IDEmptyMark, "No job ID was provided")
	}

	value := dbSplitJob{}
	err := d.dynamoDB.Table(SplitJobsTable).
		Get(idKey, id).
		OneWithContext(ctx, &value)

	if err != nil {
		switch {
		case markers.Is(err, JobUnmarshalMark):
			return jobentity.SplitJob{}, errors.Wrap(err, "Failed to fetch split job")
		case errors.Is(err, dynamo.ErrNotFound):
			return jobentity.SplitJob{}, mark.Wrap(err, JobNotFound, "Split job is not found")
		default:
			return jobentity.SplitJob{}, mark.Wrap(err, DefaultErrorMark, "Failed to fetch split job")
		}
	}

	job := jobentity.SplitJob{}
	err = job.FromMap(value)
	if err != nil {
		return jobentity.SplitJob{},
			mark.Wrap(err, JobUnmarshalMark, "Failed to transform DB map back to entity split job")
	}

	return job, nil
}

func (d DB) SetJob(ctx context.Context, job jobentity.SplitJob) error {
	if job.ID == "" {
		return mark.Message(IDEmptyMark, "Job ID is not defined on the split job")
	}

	err := d.dynamoDB.Table(SplitJobsTable).Put(job.ToMap()).RunWithContext(ctx)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to put the split job in the DB")
	}

	return nil
}

func (d DB) UpdateJob(ctx context.Context, id string, updater jobentity.Updater) error {
	job, err := d.GetJob(ctx, id)
	if err != nil {
		return mark.Wrap(err, JobNotFound, "Can't find the split job to update")
	}

	updatedJob, err := updater(job)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "The updater failed to make changes to the split job")
	}

	if updatedJob.ID != job.ID {
		return mark.Message(DefaultErrorMark, "The updater must not change the job ID")
	}

	return d.SetJob(ctx, updatedJob)
}
