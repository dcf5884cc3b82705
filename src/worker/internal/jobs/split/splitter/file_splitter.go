package splitter

import (
	"context"

	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
)

type StemFilePaths = map[string]string

// SplitResult carries the produced stems plus the roles that could not be
// satisfied. A result with missing stems is still usable, just degraded.
type SplitResult struct {
	StemPaths    StemFilePaths
	MissingStems []string
}

type FileSplitter interface {
	SplitFile(ctx context.Context, originalFilePath string, stemOutputDir string, variant jobentity.Variant) (SplitResult, error)
}
