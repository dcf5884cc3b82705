package integration_test_test

import (
	"context"
	"encoding/json"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/rabbitmq/amqp091-go"
	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/application/worker"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/pcm"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/integration_test/dummy"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/job_message"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/job_router"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/save_stems_to_db"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/split"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/split/splitter"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/split/splitter/file_splitter"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/start"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/transfer"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/transfer/download"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/storagepath"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/pipeline"
)

var _ = Describe("IntegrationTest", func() {
	var (
		originalURL       string
		originalAudioData []byte
		bucketName        string
		workingDir        string

		rabbitMQ          *dummy.RabbitMQ
		fileStore         *dummy.FileStore
		jobStore          *dummy.JobStore
		youtubeDLExecutor *dummy.YoutubeDLExecutor
		fourStemEngine    *dummy.Engine

		job jobentity.SplitJob

		queueWorker worker.QueueWorker
		run         func()
	)

	BeforeEach(func() {
		By("Assigning data to variables", func() {
			originalURL = "https://www.youtube.com/watch?v=jams"
			originalAudioData = []byte("cool-jamz")
			bucketName = "bucket-head"

			var err error
			workingDir, err = os.MkdirTemp("", "integration-test-*")
			Expect(err).NotTo(HaveOccurred())
		})

		By("Instantiating all dummies", func() {
			rabbitMQ = dummy.NewRabbitMQ()
			fileStore = dummy.NewDummyFileStore()
			jobStore = dummy.NewDummyJobStore()
			youtubeDLExecutor = dummy.NewDummyYoutubeDLExecutor()

			fourStemEngine = dummy.NewDummyEngine()
			fourStemEngine.Stems = map[string]pcm.Signal{
				pipeline.RoleVocals: dummy.TestSignal(100, 64),
				pipeline.RoleDrums:  dummy.TestSignal(200, 64),
				pipeline.RoleBass:   dummy.TestSignal(300, 64),
				pipeline.RoleOther:  dummy.TestSignal(400, 64),
			}
		})

		By("Setting up the job store", func() {
			job = jobentity.NewSplitJob(originalURL, jobentity.FourStemVariant)
			err := jobStore.SetJob(context.Background(), job)
			Expect(err).NotTo(HaveOccurred())
		})

		By("Setting up the youtubeDL executor", func() {
			youtubeDLExecutor.AddURL(originalURL, originalAudioData)
		})

		var startHandler start.JobHandler
		By("Creating the start job handler", func() {
			startHandler = start.NewJobHandler(jobStore)
		})

		pathGenerator := storagepath.Generator{
			Host:   "https://storage.googleapis.com",
			Bucket: bucketName,
		}

		var transferHandler transfer.JobHandler
		By("Creating the transfer job handler", func() {
			youtubedler := download.NewYoutubeDLer("/whatever/youtube-dl", youtubeDLExecutor)
			genericdler := download.NewGenericDLer()
			selectdler := download.NewSelectDLer(youtubedler, genericdler)

			transferrer, err := transfer.NewOriginalTransferrer(selectdler, jobStore, fileStore, pathGenerator, workingDir)
			Expect(err).NotTo(HaveOccurred())

			transferHandler = transfer.NewJobHandler(transferrer)
		})

		var splitHandler split.JobHandler
		By("Creating the split job handler", func() {
			engines := pipeline.EngineSet{FourStem: fourStemEngine}

			localFileSplitter, err := file_splitter.NewLocalFileSplitter(workingDir, engines, pipeline.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			remoteFileSplitter, err := file_splitter.NewRemoteFileSplitter(workingDir, fileStore, localFileSplitter)
			Expect(err).NotTo(HaveOccurred())

			jobSplitter := splitter.NewJobSplitter(remoteFileSplitter, jobStore, pathGenerator)
			splitHandler = split.NewJobHandler(jobSplitter)
		})

		var saveHandler save_stems_to_db.JobHandler
		By("Creating the save stems to DB job handler", func() {
			saveHandler = save_stems_to_db.NewJobHandler(jobStore)
		})

		By("Instantiating the worker", func() {
			router := job_router.NewJobRouter(
				jobStore,
				rabbitMQ,
				startHandler,
				transferHandler,
				splitHandler,
				saveHandler,
			)
			queueWorker = worker.NewQueueWorker(rabbitMQ, "test-queue", router)
		})

		By("Setting up the run routine", func() {
			run = func() {
				go func() {
					err := queueWorker.Start()
					Expect(err).NotTo(HaveOccurred())
				}()

				startJobParams := start.JobParams{
					JobIdentifier: job_message.JobIdentifier{
						JobID: job.ID,
					},
				}

				jsonBytes, err := json.Marshal(startJobParams)
				Expect(err).NotTo(HaveOccurred())

				message := amqp091.Publishing{
					Type: start.JobType,
					Body: jsonBytes,
				}
				err = rabbitMQ.Publish(message)
				Expect(err).NotTo(HaveOccurred())
			}
		})
	})

	AfterEach(func() {
		Expect(rabbitMQ.Close()).To(Succeed())
		Expect(os.RemoveAll(workingDir)).To(Succeed())
	})

	Describe("All jobs run successfully", func() {
		It("gets 4 acks", func() {
			run()

			Eventually(func() int {
				return rabbitMQ.AckCounter
			}).Should(Equal(4))
		})

		It("gets no nacks", func() {
			run()

			Consistently(func() int {
				return rabbitMQ.NackCounter
			}).Should(Equal(0))
		})

		It("uploads the original and all the stems", func() {
			run()

			originalStorageURL := "https://storage.googleapis.com/" + bucketName + "/" + job.ID + "/original/original.wav"

			Eventually(func() bool {
				contents, err := fileStore.GetFile(context.Background(), originalStorageURL)
				if err != nil {
					return false
				}

				return string(contents) == string(originalAudioData)
			}).Should(BeTrue())

			Eventually(func() bool {
				savedJob, err := jobStore.GetJob(context.Background(), job.ID)
				if err != nil {
					return false
				}

				if savedJob.Status != jobentity.DoneStatus {
					return false
				}

				if len(savedJob.StemURLs) != 4 {
					return false
				}

				for _, stemURL := range savedJob.StemURLs {
					contents, err := fileStore.GetFile(context.Background(), stemURL)
					if err != nil || len(contents) == 0 {
						return false
					}
				}

				return len(savedJob.MissingStems) == 0
			}).Should(BeTrue())
		})
	})

	Describe("File storage is down", func() {
		BeforeEach(func() {
			fileStore.Unavailable = true
		})

		It("gets 1 ack for the start job", func() {
			run()

			Eventually(func() int {
				return rabbitMQ.AckCounter
			}).Should(Equal(1))
		})

		It("gets 1 nack for the transfer job failing", func() {
			run()

			Eventually(func() int {
				return rabbitMQ.NackCounter
			}).Should(Equal(1))
		})

		It("reports the error status on the job", func() {
			run()

			Eventually(func() bool {
				savedJob, err := jobStore.GetJob(context.Background(), job.ID)
				if err != nil {
					return false
				}

				return savedJob.Status == jobentity.ErrorStatus &&
					savedJob.ErrorMessage == transfer.ErrorMessage
			}).Should(BeTrue())
		})
	})

	Describe("The engine produces no stems", func() {
		BeforeEach(func() {
			fourStemEngine.Stems = map[string]pcm.Signal{}
		})

		It("finalizes the job as degraded", func() {
			run()

			Eventually(func() bool {
				savedJob, err := jobStore.GetJob(context.Background(), job.ID)
				if err != nil {
					return false
				}

				return savedJob.Status == jobentity.DegradedStatus &&
					len(savedJob.MissingStems) == 4
			}).Should(BeTrue())
		})
	})
})
