package jobstorage

import "github.com/cockroachdb/errors/domains"

var (
	JobNotFound      = domains.New("split_job_not_found")
	JobUnmarshalMark = domains.New("split_job_unmarshal_fail")
	JobMarshalMark   = domains.New("split_job_marshal_fail")
	IDEmptyMark      = domains.New("split_job_id_empty")
	DefaultErrorMark = domains.New("default_error")
)
