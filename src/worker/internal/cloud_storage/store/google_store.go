package filestore

import (
	"context"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	cloudstorage "github.com/veedubyou/stem-splitter-be/src/worker/internal/cloud_storage/entity"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
	"google.golang.org/api/option"
)

var _ cloudstorage.FileStore = GoogleFileStore{}

// NewGoogleFileStore addresses objects by their public URL form,
// <storageHost>/<bucket>/<object path>, so the URLs that get persisted on
// jobs are directly usable for both reads and writes.
func NewGoogleFileStore(storageHost string, opts ...option.ClientOption) (GoogleFileStore, error) {
	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return GoogleFileStore{}, cerr.Wrap(err).Error("Failed to create a cloud storage client")
	}

	return GoogleFileStore{
		storageHost: strings.TrimSuffix(storageHost, "/"),
		client:      client,
	}, nil
}

type GoogleFileStore struct {
	storageHost string
	client      *storage.Client
}

func (g GoogleFileStore) GetFile(ctx context.Context, url string) ([]byte, error) {
	objectHandle, err := g.objectHandle(url)
	if err != nil {
		return nil, cerr.Wrap(err).Error("Failed to resolve the storage object for this URL")
	}

	reader, err := objectHandle.NewReader(ctx)
	if err != nil {
		return nil, cerr.Field("url", url).
			Wrap(err).Error("Failed to open the storage object for reading")
	}

	defer reader.Close()

	contents, err := io.ReadAll(reader)
	if err != nil {
		return nil, cerr.Field("url", url).
			Wrap(err).Error("Failed to read the storage object contents")
	}

	return contents, nil
}

func (g GoogleFileStore) WriteFile(ctx context.Context, url string, fileContent []byte) error {
	objectHandle, err := g.objectHandle(url)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to resolve the storage object for this URL")
	}

	writer := objectHandle.NewWriter(ctx)
	if _, err := writer.Write(fileContent); err != nil {
		_ = writer.Close()
		return cerr.Field("url", url).
			Wrap(err).Error("Failed to write the storage object contents")
	}

	if err := writer.Close(); err != nil {
		return cerr.Field("url", url).
			Wrap(err).Error("Failed to finalize the storage object write")
	}

	return nil
}

func (g GoogleFileStore) objectHandle(url string) (*storage.ObjectHandle, error) {
	prefix := g.storageHost + "/"
	if !strings.HasPrefix(url, prefix) {
		return nil, cerr.Fields(cerr.F{
			"url":          url,
			"storage_host": g.storageHost,
		}).Error("URL does not belong to this storage host")
	}

	bucketAndObject := strings.TrimPrefix(url, prefix)
	bucketName, objectPath, found := strings.Cut(bucketAndObject, "/")
	if !found || bucketName == "" || objectPath == "" {
		return nil, cerr.Field("url", url).
			Error("URL does not contain a bucket and object path")
	}

	return g.client.Bucket(bucketName).Object(objectPath), nil
}
