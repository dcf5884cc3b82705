package application

import (
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/guregu/dynamo"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-splitter-be/src/shared/config"
	dynamolib "github.com/veedubyou/stem-splitter-be/src/shared/lib/dynamo"
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/rabbitmq"
	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	jobstorage "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/storage"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/application/worker"
	cloudstorage "github.com/veedubyou/stem-splitter-be/src/worker/internal/cloud_storage/entity"
	filestore "github.com/veedubyou/stem-splitter-be/src/worker/internal/cloud_storage/store"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/executor"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/job_router"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/save_stems_to_db"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/split"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/split/splitter"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/split/splitter/file_splitter"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/start"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/transfer"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/transfer/download"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/storagepath"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/pipeline"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/separation/engine"
	"google.golang.org/api/option"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}

	return t
}

type App struct {
	worker worker.QueueWorker
}

type Config struct {
	RabbitMQURL        string
	RabbitMQQueueName  string
	DynamoConfig       config.Dynamo
	CloudStorageConfig config.CloudStorage

	DemucsBinPath         string
	AudioSeparatorBinPath string
	YoutubeDLBinPath      string
	WorkingDirPath        string

	PipelineParams pipeline.Params
}

func NewApp(config Config) App {
	consumerConn := must(amqp091.Dial(config.RabbitMQURL))

	return App{
		worker: newWorker(config, consumerConn),
	}
}

func (a *App) Start() error {
	err := a.worker.Start()
	if err != nil {
		return cerr.Wrap(err).Error("Failed to start worker")
	}

	return nil
}

func (a *App) Stop() {
	a.worker.Stop()
}

func newWorker(config Config, consumerConn *amqp091.Connection) worker.QueueWorker {
	publisher := newPublisher(config)

	jobStore := jobstorage.NewDB(newDynamoDB(config.DynamoConfig))
	queueWorker := must(worker.NewQueueWorkerFromConnection(
		consumerConn,
		config.RabbitMQQueueName,
		newJobRouter(config, jobStore, publisher)))

	return queueWorker
}

func newPublisher(config Config) *rabbitmq.QueuePublisher {
	return must(rabbitmq.NewQueuePublisher(config.RabbitMQURL, config.RabbitMQQueueName))
}

func newDynamoDB(dynamoConfig config.Dynamo) dynamolib.DynamoDBWrapper {
	dbSession := session.Must(session.NewSession())

	var dbConfig *aws.Config

	switch t := dynamoConfig.(type) {
	case config.ProdDynamo:
		dbConfig = aws.NewConfig().
			WithCredentials(credentials.NewStaticCredentials(
				t.AccessKeyID,
				t.SecretAccessKey,
				"",
			)).
			WithRegion(t.Region)

	case config.LocalDynamo:
		dbConfig = aws.NewConfig().
			WithCredentials(credentials.NewStaticCredentials(
				t.AccessKeyID,
				t.SecretAccessKey,
				"",
			)).
			WithRegion(t.Region).
			WithEndpoint(t.Host)

	default:
		panic("Unexpected dynamo config type")
	}

	return dynamolib.DynamoDBWrapper{
		DB: dynamo.New(dbSession, dbConfig),
	}
}

func newGoogleFileStore(cloudStorageConfig config.CloudStorage) filestore.GoogleFileStore {
	switch t := cloudStorageConfig.(type) {
	case config.ProdCloudStorage:
		return must(filestore.NewGoogleFileStore(
			t.StorageHost,
			option.WithCredentialsJSON([]byte(t.SecretKey)),
		))

	case config.LocalCloudStorage:
		return must(filestore.NewGoogleFileStore(
			t.StorageHost,
			option.WithEndpoint(t.HostEndpoint),
			option.WithAPIKey("fake_api_key"),
		))

	default:
		panic("Unrecognized cloud storage config")
	}
}

func newEngineSet(config Config) pipeline.EngineSet {
	binaryExecutor := executor.BinaryFileExecutor{}

	return pipeline.EngineSet{
		FourStem: engine.NewDemucsEngine(
			config.DemucsBinPath,
			engine.FourStemModel,
			engine.FourStemMarkerRole,
			binaryExecutor,
		),
		SixStem: engine.NewDemucsEngine(
			config.DemucsBinPath,
			engine.SixStemModel,
			engine.SixStemMarkerRole,
			binaryExecutor,
		),
		Karaoke: engine.NewRoformerEngine(
			config.AudioSeparatorBinPath,
			engine.KaraokeModel,
			binaryExecutor,
		),
	}
}

func newJobRouter(config Config, jobStore jobentity.Store, publisher rabbitmq.Publisher) job_router.JobRouter {
	pathGenerator := storagepath.Generator{
		Host:   config.CloudStorageConfig.GetStorageHost(),
		Bucket: config.CloudStorageConfig.GetBucket(),
	}

	return job_router.NewJobRouter(
		jobStore,
		publisher,
		newStartJobHandler(jobStore),
		newTransferJobHandler(config, jobStore, pathGenerator),
		newSplitJobHandler(config, jobStore, pathGenerator),
		newSaveToDBJobHandler(jobStore))
}

func newStartJobHandler(jobStore jobentity.Store) start.JobHandler {
	return start.NewJobHandler(jobStore)
}

func newTransferJobHandler(config Config, jobStore jobentity.Store, pathGenerator storagepath.Generator) transfer.JobHandler {
	if err := os.MkdirAll(config.WorkingDirPath, os.ModePerm); err != nil {
		panic(err)
	}

	youtubedler := download.NewYoutubeDLer(config.YoutubeDLBinPath, executor.BinaryFileExecutor{})
	genericdler := download.NewGenericDLer()

	selectdler := download.NewSelectDLer(youtubedler, genericdler)

	originalTransferrer := must(transfer.NewOriginalTransferrer(
		selectdler,
		jobStore,
		newGoogleFileStore(config.CloudStorageConfig),
		pathGenerator,
		config.WorkingDirPath,
	))

	return transfer.NewJobHandler(originalTransferrer)
}

func newSplitJobHandler(config Config, jobStore jobentity.Store, pathGenerator storagepath.Generator) split.JobHandler {
	if err := os.MkdirAll(config.WorkingDirPath, os.ModePerm); err != nil {
		panic(err)
	}

	localUsecase := must(file_splitter.NewLocalFileSplitter(
		config.WorkingDirPath,
		newEngineSet(config),
		config.PipelineParams,
	))

	var googleFileStore cloudstorage.FileStore = newGoogleFileStore(config.CloudStorageConfig)
	remoteUsecase := must(file_splitter.NewRemoteFileSplitter(
		config.WorkingDirPath,
		googleFileStore,
		localUsecase,
	))

	jobSplitter := splitter.NewJobSplitter(
		remoteUsecase,
		jobStore,
		pathGenerator,
	)

	return split.NewJobHandler(jobSplitter)
}

func newSaveToDBJobHandler(jobStore jobentity.Store) save_stems_to_db.JobHandler {
	return save_stems_to_db.NewJobHandler(jobStore)
}
