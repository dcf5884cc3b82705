package file_splitter

import (
	"context"
	"path/filepath"

	jobentity "github.com/veedubyou/stem-splitter-be/src/shared/splitjob/entity"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/split/splitter"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/working_dir"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/pipeline"
)

var _ splitter.FileSplitter = LocalFileSplitter{}

var planForVariant = map[jobentity.Variant]func(pipeline.EngineSet) pipeline.Plan{
	jobentity.FourStemVariant: pipeline.FourStemPlan,
	jobentity.MelodyVariant:   pipeline.MelodyPlan,
	jobentity.VocalsVariant:   pipeline.VocalsPlan,
}

func NewLocalFileSplitter(workingDirStr string, engines pipeline.EngineSet, params pipeline.Params) (LocalFileSplitter, error) {
	workingDir, err := working_dir.NewWorkingDir(workingDirStr)
	if err != nil {
		return LocalFileSplitter{}, cerr.Wrap(err).Error("Failed to convert working dir to absolute format")
	}

	return LocalFileSplitter{
		workingDir: workingDir,
		engines:    engines,
		params:     params,
	}, nil
}

// LocalFileSplitter runs the separation pipeline over a file already on the
// local filesystem, leaving stems in the local output dir.
type LocalFileSplitter struct {
	workingDir working_dir.WorkingDir
	engines    pipeline.EngineSet
	params     pipeline.Params
}

func (l LocalFileSplitter) SplitFile(ctx context.Context, originalFilePath string, stemsOutputDir string, variant jobentity.Variant) (splitter.SplitResult, error) {
	absOriginalFilePath, err := filepath.Abs(originalFilePath)
	if err != nil {
		return splitter.SplitResult{}, cerr.Wrap(err).Error("Cannot convert source path to absolute format")
	}

	errctx := cerr.Field("original_filepath", absOriginalFilePath)

	absStemsOutputDir, err := filepath.Abs(stemsOutputDir)
	if err != nil {
		return splitter.SplitResult{}, errctx.Wrap(err).Error("Cannot convert destination path to absolute format")
	}

	planConstructor, ok := planForVariant[variant]
	if !ok {
		return splitter.SplitResult{}, errctx.Field("variant", variant).
			Error("Invalid job variant passed in")
	}

	// splitting is a lengthy process, if we want to halt now is the time
	if ctx.Err() != nil {
		return splitter.SplitResult{}, cerr.Wrap(ctx.Err()).Error("Context cancelled before splitting could happen")
	}

	orchestrator := pipeline.NewOrchestrator(planConstructor(l.engines), l.params, l.workingDir)

	result, err := orchestrator.Run(absOriginalFilePath, absStemsOutputDir)
	if err != nil {
		return splitter.SplitResult{}, errctx.Field("output_dir", absStemsOutputDir).
			Wrap(err).Error("Failed to run the separation pipeline")
	}

	return splitter.SplitResult{
		StemPaths:    result.StemPaths,
		MissingStems: result.MissingRoles,
	}, nil
}
