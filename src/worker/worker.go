package main

import (
	"path"

	"github.com/veedubyou/stem-splitter-be/src/shared/config"
	"github.com/veedubyou/stem-splitter-be/src/shared/config/dev"
	"github.com/veedubyou/stem-splitter-be/src/shared/config/envvar"
	"github.com/veedubyou/stem-splitter-be/src/shared/config/local"
	"github.com/veedubyou/stem-splitter-be/src/shared/config/prod"
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/env"
	"github.com/veedubyou/stem-splitter-be/src/worker/application"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/pipeline"
)

func main() {
	var appConfig application.Config

	switch env.Get() {
	case env.Production:
		appConfig = application.Config{
			DynamoConfig: config.ProdDynamo{
				AccessKeyID:     envvar.MustGet(envvar.AWS_ACCESS_KEY_ID),
				SecretAccessKey: envvar.MustGet(envvar.AWS_SECRET_ACCESS_KEY),
				Region:          prod.DynamoDBRegion,
			},
			CloudStorageConfig: config.ProdCloudStorage{
				StorageHost: prod.GOOGLE_STORAGE_HOST,
				SecretKey:   envvar.MustGet(envvar.GOOGLE_CLOUD_KEY),
				BucketName:  envvar.MustGet(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME),
			},
			RabbitMQURL:           envvar.MustGet(envvar.RABBITMQ_URL),
			RabbitMQQueueName:     envvar.MustGet(envvar.RABBITMQ_QUEUE_NAME),
			DemucsBinPath:         envvar.MustGet(envvar.DEMUCS_BIN_PATH),
			AudioSeparatorBinPath: envvar.MustGet(envvar.AUDIO_SEPARATOR_BIN_PATH),
			YoutubeDLBinPath:      envvar.MustGet(envvar.YOUTUBEDL_BIN_PATH),
			WorkingDirPath:        envvar.MustGet(envvar.SPLITTER_WORKING_DIR_PATH),
			PipelineParams:        pipeline.DefaultParams(),
		}

	case env.Development:
		appConfig = application.Config{
			DynamoConfig: dev.DynamoConfig,
			// using prod for now because the local fake GCS doesn't persist
			CloudStorageConfig: config.ProdCloudStorage{
				StorageHost: prod.GOOGLE_STORAGE_HOST,
				SecretKey:   envvar.MustGet(envvar.GOOGLE_CLOUD_KEY),
				BucketName:  envvar.MustGet(envvar.GOOGLE_CLOUD_STORAGE_BUCKET_NAME),
			},
			RabbitMQURL:           dev.RabbitMQHost,
			RabbitMQQueueName:     dev.RabbitMQQueueName,
			DemucsBinPath:         config.DemucsPath(),
			AudioSeparatorBinPath: config.AudioSeparatorPath(),
			YoutubeDLBinPath:      config.YoutubeDLPath(),
			WorkingDirPath:        path.Join(local.ProjectRoot(), "/src/worker/wd"),
			PipelineParams:        pipeline.DefaultParams(),
		}
	default:
		panic("Unexpected environment")
	}

	app := application.NewApp(appConfig)
	if err := app.Start(); err != nil {
		panic(err)
	}
}
