package job_message

// JobIdentifier is the common envelope of every queue message; all job
// payloads embed it so the router can always recover the job being worked.
type JobIdentifier struct {
	JobID string `json:"job_id"`
}
