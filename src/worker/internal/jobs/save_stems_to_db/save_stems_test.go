package save_stems_to_db_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/integration_test/dummy"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/job_message"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/save_stems_to_db"
)

var _ = Describe("Save stems job handler", func() {
	var (
		jobStore *dummy.JobStore
		handler  save_stems_to_db.JobHandler
		job      jobentity.SplitJob
		stemURLs map[string]string
	)

	makeMessage := func(missingStems []string) []byte {
		message, err := json.Marshal(save_stems_to_db.JobParams{
			JobIdentifier: job_message.JobIdentifier{JobID: job.ID},
			StemURLs:      stemURLs,
			MissingStems:  missingStems,
		})
		Expect(err).NotTo(HaveOccurred())
		return message
	}

	BeforeEach(func() {
		jobStore = dummy.NewDummyJobStore()
		handler = save_stems_to_db.NewJobHandler(jobStore)

		job = jobentity.NewSplitJob("https://youtube.com/watch?v=abc", jobentity.FourStemVariant)
		job.Status = jobentity.ProcessingStatus
		jobStore.State[job.ID] = job

		stemURLs = map[string]string{
			"vocals": "https://storage.googleapis.com/stems/id/4stems/vocals.wav",
			"drums":  "https://storage.googleapis.com/stems/id/4stems/drums.wav",
			"bass":   "https://storage.googleapis.com/stems/id/4stems/bass.wav",
			"other":  "https://storage.googleapis.com/stems/id/4stems/other.wav",
		}
	})

	Describe("All stems delivered", func() {
		It("finalizes the job as done with its stem URLs", func() {
			err := handler.HandleSaveStemsToDBJob(makeMessage(nil))
			Expect(err).NotTo(HaveOccurred())

			savedJob := jobStore.State[job.ID]
			Expect(savedJob.Status).To(Equal(jobentity.DoneStatus))
			Expect(savedJob.StemURLs).To(Equal(stemURLs))
			Expect(savedJob.MissingStems).To(BeEmpty())
		})
	})

	Describe("Some stems missing", func() {
		It("finalizes the job as degraded and records what's missing", func() {
			err := handler.HandleSaveStemsToDBJob(makeMessage([]string{"bass"}))
			Expect(err).NotTo(HaveOccurred())

			savedJob := jobStore.State[job.ID]
			Expect(savedJob.Status).To(Equal(jobentity.DegradedStatus))
			Expect(savedJob.StemURLs).To(Equal(stemURLs))
			Expect(savedJob.MissingStems).To(Equal([]string{"bass"}))
		})
	})

	Describe("Job is not in processing status", func() {
		BeforeEach(func() {
			job.Status = jobentity.RequestedStatus
			jobStore.State[job.ID] = job
		})

		It("refuses to finalize the job", func() {
			err := handler.HandleSaveStemsToDBJob(makeMessage(nil))
			Expect(err).To(HaveOccurred())

			Expect(jobStore.State[job.ID].Status).To(Equal(jobentity.RequestedStatus))
		})
	})

	Describe("Job store is unavailable", func() {
		BeforeEach(func() {
			jobStore.Unavailable = true
		})

		It("fails", func() {
			err := handler.HandleSaveStemsToDBJob(makeMessage(nil))
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Malformed message", func() {
		It("fails on garbage JSON", func() {
			err := handler.HandleSaveStemsToDBJob([]byte("not json"))
			Expect(err).To(HaveOccurred())
		})

		It("fails on a missing job ID", func() {
			job.ID = ""
			err := handler.HandleSaveStemsToDBJob(makeMessage(nil))
			Expect(err).To(HaveOccurred())
		})

		It("fails on missing stem URLs", func() {
			stemURLs = nil
			err := handler.HandleSaveStemsToDBJob(makeMessage(nil))
			Expect(err).To(HaveOccurred())
		})

		It("accepts an empty stem set when everything is reported missing", func() {
			stemURLs = nil
			err := handler.HandleSaveStemsToDBJob(makeMessage([]string{"vocals", "drums", "bass", "other"}))
			Expect(err).NotTo(HaveOccurred())

			savedJob := jobStore.State[job.ID]
			Expect(savedJob.Status).To(Equal(jobentity.DegradedStatus))
			Expect(savedJob.MissingStems).To(HaveLen(4))
		})
	})
})
