package start_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/integration_test/dummy"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/job_message"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/start"
)

var _ = Describe("Start job handler", func() {
	var (
		jobStore *dummy.JobStore
		handler  start.JobHandler
		job      jobentity.SplitJob
		message  []byte
	)

	BeforeEach(func() {
		jobStore = dummy.NewDummyJobStore()
		handler = start.NewJobHandler(jobStore)

		job = jobentity.NewSplitJob("https://youtube.com/watch?v=abc", jobentity.FourStemVariant)
		jobStore.State[job.ID] = job

		var err error
		message, err = json.Marshal(start.JobParams{
			JobIdentifier: job_message.JobIdentifier{JobID: job.ID},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Well formed message", func() {
		It("moves the job into processing status", func() {
			params, err := handler.HandleStartJob(message)
			Expect(err).NotTo(HaveOccurred())

			Expect(params.JobID).To(Equal(job.ID))
			Expect(jobStore.State[job.ID].Status).To(Equal(jobentity.ProcessingStatus))
		})

		Describe("Job is not in requested status", func() {
			BeforeEach(func() {
				job.Status = jobentity.DoneStatus
				jobStore.State[job.ID] = job
			})

			It("refuses to process the job", func() {
				_, err := handler.HandleStartJob(message)
				Expect(err).To(HaveOccurred())

				Expect(jobStore.State[job.ID].Status).To(Equal(jobentity.DoneStatus))
			})
		})

		Describe("Job store is unavailable", func() {
			BeforeEach(func() {
				jobStore.Unavailable = true
			})

			It("fails", func() {
				_, err := handler.HandleStartJob(message)
				Expect(err).To(HaveOccurred())
			})
		})

		Describe("Job doesn't exist", func() {
			BeforeEach(func() {
				delete(jobStore.State, job.ID)
			})

			It("fails", func() {
				_, err := handler.HandleStartJob(message)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Malformed message", func() {
		It("fails on garbage JSON", func() {
			_, err := handler.HandleStartJob([]byte("{{{"))
			Expect(err).To(HaveOccurred())
		})

		It("fails on a missing job ID", func() {
			_, err := handler.HandleStartJob([]byte("{}"))
			Expect(err).To(HaveOccurred())
		})
	})
})
