package transfer_test

import (
	"encoding/json"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/integration_test/dummy"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/job_message"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/transfer"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/transfer/download"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/storagepath"
)

var _ = Describe("Transfer job handler", func() {
	const originalURL = "https://www.youtube.com/watch?v=abc"

	var (
		tempDir   string
		jobStore  *dummy.JobStore
		fileStore *dummy.FileStore
		executor  *dummy.YoutubeDLExecutor
		handler   transfer.JobHandler
		job       jobentity.SplitJob
		message   []byte
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "transfer-test-*")
		Expect(err).NotTo(HaveOccurred())

		jobStore = dummy.NewDummyJobStore()
		fileStore = dummy.NewDummyFileStore()

		executor = dummy.NewDummyYoutubeDLExecutor()
		executor.AddURL(originalURL, []byte("original audio bytes"))

		job = jobentity.NewSplitJob(originalURL, jobentity.FourStemVariant)
		job.Status = jobentity.ProcessingStatus
		jobStore.State[job.ID] = job

		downloader := download.NewSelectDLer(
			download.NewYoutubeDLer("/bin/youtube-dl", executor),
			download.NewGenericDLer(),
		)

		transferrer, err := transfer.NewOriginalTransferrer(
			downloader,
			jobStore,
			fileStore,
			storagepath.Generator{
				Host:   "https://storage.googleapis.com",
				Bucket: "stem-splitter-test",
			},
			tempDir,
		)
		Expect(err).NotTo(HaveOccurred())

		handler = transfer.NewJobHandler(transferrer)

		message, err = json.Marshal(transfer.JobParams{
			JobIdentifier: job_message.JobIdentifier{JobID: job.ID},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	Describe("Well formed message", func() {
		It("lands the original audio in the file store", func() {
			params, savedOriginalURL, err := handler.HandleTransferJob(message)
			Expect(err).NotTo(HaveOccurred())

			Expect(params.JobID).To(Equal(job.ID))

			expectedURL := "https://storage.googleapis.com/stem-splitter-test/" + job.ID + "/original/original.wav"
			Expect(savedOriginalURL).To(Equal(expectedURL))
			Expect(fileStore.State[expectedURL]).To(Equal([]byte("original audio bytes")))
		})

		Describe("Job doesn't exist", func() {
			BeforeEach(func() {
				delete(jobStore.State, job.ID)
			})

			It("fails", func() {
				_, _, err := handler.HandleTransferJob(message)
				Expect(err).To(HaveOccurred())
			})
		})

		Describe("Download fails", func() {
			BeforeEach(func() {
				job.OriginalURL = "https://www.youtube.com/watch?v=unregistered"
				jobStore.State[job.ID] = job
			})

			It("fails without writing to the file store", func() {
				_, _, err := handler.HandleTransferJob(message)
				Expect(err).To(HaveOccurred())
				Expect(fileStore.State).To(BeEmpty())
			})
		})

		Describe("File store is unavailable", func() {
			BeforeEach(func() {
				fileStore.Unavailable = true
			})

			It("fails", func() {
				_, _, err := handler.HandleTransferJob(message)
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Malformed message", func() {
		It("fails on garbage JSON", func() {
			_, _, err := handler.HandleTransferJob([]byte("}{"))
			Expect(err).To(HaveOccurred())
		})

		It("fails on a missing job ID", func() {
			_, _, err := handler.HandleTransferJob([]byte("{}"))
			Expect(err).To(HaveOccurred())
		})
	})
})
