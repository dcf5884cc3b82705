package pipeline

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/mix"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/wavfile"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/working_dir"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/separation/classify"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/separation/engine"
)

// Stage names the passes of a run, in execution order.
type Stage string

const (
	StagePrimary Stage = "primary"
	StageRefine  Stage = "refine"
	StageCleanup Stage = "cleanup"
)

// State is the externally visible progress marker, logged at each transition.
type State string

const (
	StateInit             State = "INIT"
	StatePrimarySeparated State = "PRIMARY_SEPARATED"
	StateRefined          State = "REFINED"
	StateCleaned          State = "CLEANED"
	StateComplete         State = "COMPLETE"
)

type FailureMode int

const (
	// Abort ends the run with an error, producing no stems.
	Abort FailureMode = iota

	// SkipAndWarn drops the failed pass and continues with the stems
	// produced so far.
	SkipAndWarn
)

// stagePolicy is the failure policy per stage. The primary pass is the only
// source of stems, so its failure is fatal; later passes only improve stems
// that already exist, so their failure degrades the result instead.
var stagePolicy = map[Stage]FailureMode{
	StagePrimary: Abort,
	StageRefine:  SkipAndWarn,
	StageCleanup: SkipAndWarn,
}

// Result is what a finished run delivers. StemPaths has one entry per role
// that resolved to a file; MissingRoles lists configured roles that could not
// be satisfied even by the completeness fill.
type Result struct {
	State         State
	StemPaths     map[string]string
	MissingRoles  []string
	SkippedStages []Stage
}

// Partial reports whether the run delivered fewer roles than configured.
func (r Result) Partial() bool {
	return len(r.MissingRoles) > 0
}

func NewOrchestrator(plan Plan, params Params, workingDir working_dir.WorkingDir) Orchestrator {
	return Orchestrator{
		plan:       plan,
		params:     params,
		workingDir: workingDir,
	}
}

// Orchestrator runs one plan over one input file, managing scratch space,
// stage ordering, and the per-stage failure policy.
type Orchestrator struct {
	plan       Plan
	params     Params
	workingDir working_dir.WorkingDir
}

// Run separates inputPath and leaves one wav per configured role in destDir.
// Stems are named <role>.wav regardless of which engine produced them.
func (o Orchestrator) Run(inputPath string, destDir string) (Result, error) {
	logger := log.WithFields(log.Fields{
		"plan":       o.plan.Name,
		"input_path": inputPath,
		"dest_dir":   destDir,
	})

	run := &runState{
		orchestrator: o,
		logger:       logger,
		result: Result{
			State:     StateInit,
			StemPaths: map[string]string{},
		},
	}

	jobDir, err := os.MkdirTemp(o.workingDir.TempDir(), "separation-*")
	if err != nil {
		return run.result, cerr.Field("working_dir", o.workingDir.TempDir()).
			Wrap(err).Error("Failed to create a scratch dir for the run")
	}

	defer func() {
		if err := os.RemoveAll(jobDir); err != nil {
			logger.WithField("job_dir", jobDir).
				Warn("Failed to remove the run's scratch dir")
		}
	}()

	run.transition(StateInit)

	input := run.padShortInput(inputPath, jobDir)

	if err := run.primary(input, jobDir, destDir); err != nil {
		return run.result, err
	}

	run.transition(StatePrimarySeparated)

	if o.plan.Refine != nil {
		refined, err := run.refine(jobDir, destDir)
		if err := run.stageFailed(StageRefine, err); err != nil {
			return run.result, err
		}

		if refined {
			run.transition(StateRefined)
		}
	}

	if o.params.CleanupEnabled && o.plan.Cleanup != nil {
		cleaned, err := run.cleanup(jobDir, destDir)
		if err := run.stageFailed(StageCleanup, err); err != nil {
			return run.result, err
		}

		if cleaned {
			run.transition(StateCleaned)
		}
	}

	run.fillMissingRoles(destDir)
	run.transition(StateComplete)

	return run.result, nil
}

type runState struct {
	orchestrator Orchestrator
	logger       log.Interface
	result       Result
}

func (r *runState) transition(state State) {
	r.result.State = state
	r.logger.WithField("state", string(state)).Info("Pipeline state transition")
}

// stageFailed applies the stage's policy to an error. A nil return means the
// run continues; skips are recorded on the result.
func (r *runState) stageFailed(stage Stage, err error) error {
	if err == nil {
		return nil
	}

	if stagePolicy[stage] == Abort {
		return err
	}

	cerr.Log(err)
	r.logger.WithField("stage", string(stage)).
		Warn("Stage failed, continuing with the stems produced so far")
	r.result.SkippedStages = append(r.result.SkippedStages, stage)

	return nil
}

// padShortInput rewrites inputs shorter than the configured minimum into the
// scratch dir with trailing silence appended. Any failure here falls back to
// the original input untouched, since the engine may still accept it.
func (r *runState) padShortInput(inputPath string, jobDir string) string {
	if r.orchestrator.params.MinDuration <= 0 {
		return inputPath
	}

	signal, err := wavfile.Load(inputPath)
	if err != nil {
		cerr.Log(err)
		r.logger.Warn("Could not inspect the input duration, passing it through unpadded")
		return inputPath
	}

	if signal.Duration() >= r.orchestrator.params.MinDuration {
		return inputPath
	}

	paddedPath := filepath.Join(jobDir, "padded_"+filepath.Base(inputPath))
	padded := signal.PadToDuration(r.orchestrator.params.MinDuration)

	if err := wavfile.Save(paddedPath, padded); err != nil {
		cerr.Log(err)
		r.logger.Warn("Could not write the padded input, passing it through unpadded")
		return inputPath
	}

	r.logger.WithFields(log.Fields{
		"original_duration": signal.Duration().String(),
		"padded_duration":   padded.Duration().String(),
	}).Info("Padded a short input with silence")

	return paddedPath
}

func (r *runState) primary(inputPath string, jobDir string, destDir string) error {
	output, err := r.orchestrator.plan.Primary.Separate(
		inputPath,
		filepath.Join(jobDir, "primary"),
		r.orchestrator.params.EngineParams(),
	)
	if err != nil {
		return cerr.Field("plan", r.orchestrator.plan.Name).
			Wrap(err).Error("Primary separation failed")
	}

	if r.orchestrator.plan.ClassifyPrimary {
		return r.collectClassified(output, destDir)
	}

	stemPaths, err := engine.CollectStems(output.TrackDir, r.orchestrator.plan.Roles, destDir)
	if err != nil {
		return cerr.Field("track_dir", output.TrackDir).
			Wrap(err).Error("Failed to collect the primary separation stems")
	}

	for role, path := range stemPaths {
		r.result.StemPaths[role] = path
	}

	return nil
}

// collectClassified maps arbitrarily named engine outputs onto roles and
// copies them under the role names the rest of the pipeline expects.
func (r *runState) collectClassified(output engine.Output, destDir string) error {
	if err := os.MkdirAll(destDir, os.ModePerm); err != nil {
		return cerr.Field("dest_dir", destDir).
			Wrap(err).Error("Failed to create the stem destination dir")
	}

	for role, sourcePath := range classify.LeadBacking(output.Files) {
		destPath := filepath.Join(destDir, engine.StemFileName(role))
		if err := engine.CopyFile(sourcePath, destPath); err != nil {
			return cerr.Fields(cerr.F{
				"role":        role,
				"source_path": sourcePath,
			}).Wrap(err).Error("Failed to copy a classified stem to its destination")
		}

		r.result.StemPaths[role] = destPath
	}

	return nil
}

// refine re-separates the donor stem to recover the target-like component
// that bled into it, adds that component to the target, and subtracts it from
// the donor. Both rewritten stems are clamped and peak-normalized. Returns
// false without error when the inputs for refinement aren't all present.
func (r *runState) refine(jobDir string, destDir string) (bool, error) {
	plan := r.orchestrator.plan.Refine

	targetPath := filepath.Join(destDir, engine.StemFileName(plan.TargetRole))
	donorPath := filepath.Join(destDir, engine.StemFileName(plan.DonorRole))

	if !fileExists(targetPath) || !fileExists(donorPath) {
		r.logger.Info("Target or donor stem is absent, nothing to refine")
		return false, nil
	}

	errctx := cerr.Fields(cerr.F{
		"target_role": plan.TargetRole,
		"donor_role":  plan.DonorRole,
	})

	output, err := plan.Engine.Separate(
		donorPath,
		filepath.Join(jobDir, "refine"),
		r.orchestrator.params.EngineParams(),
	)
	if err != nil {
		return false, errctx.Wrap(err).Error("Refinement separation over the donor stem failed")
	}

	extractedPath := filepath.Join(output.TrackDir, engine.StemFileName(plan.TargetRole))
	if !fileExists(extractedPath) {
		r.logger.Info("Refinement pass found no target component in the donor stem")
		return false, nil
	}

	target, err := wavfile.Load(targetPath)
	if err != nil {
		return false, errctx.Wrap(err).Error("Failed to load the target stem for refinement")
	}

	donor, err := wavfile.Load(donorPath)
	if err != nil {
		return false, errctx.Wrap(err).Error("Failed to load the donor stem for refinement")
	}

	extracted, err := wavfile.Load(extractedPath)
	if err != nil {
		return false, errctx.Wrap(err).Error("Failed to load the extracted component for refinement")
	}

	enrichedTarget, err := mix.Add(target, extracted)
	if err != nil {
		return false, errctx.Wrap(err).Error("Failed to fold the extracted component into the target stem")
	}

	reducedDonor, err := mix.Subtract(donor, extracted)
	if err != nil {
		return false, errctx.Wrap(err).Error("Failed to cancel the extracted component out of the donor stem")
	}

	if err := wavfile.Save(targetPath, mix.NormalizePeak(mix.Clamp(enrichedTarget))); err != nil {
		return false, errctx.Wrap(err).Error("Failed to persist the refined target stem")
	}

	if err := wavfile.Save(donorPath, mix.NormalizePeak(mix.Clamp(reducedDonor))); err != nil {
		return false, errctx.Wrap(err).Error("Failed to persist the refined donor stem")
	}

	return true, nil
}

// cleanup re-separates the target stem and attenuates the leaked components
// found inside it. Returns false without error when the target is absent.
func (r *runState) cleanup(jobDir string, destDir string) (bool, error) {
	plan := r.orchestrator.plan.Cleanup

	targetPath := filepath.Join(destDir, engine.StemFileName(plan.TargetRole))
	if !fileExists(targetPath) {
		r.logger.Info("Target stem is absent, nothing to clean up")
		return false, nil
	}

	errctx := cerr.Fields(cerr.F{
		"target_role": plan.TargetRole,
		"leak_roles":  plan.LeakRoles,
	})

	output, err := plan.Engine.Separate(
		targetPath,
		filepath.Join(jobDir, "cleanup"),
		r.orchestrator.params.EngineParams(),
	)
	if err != nil {
		return false, errctx.Wrap(err).Error("Cleanup separation over the target stem failed")
	}

	target, err := wavfile.Load(targetPath)
	if err != nil {
		return false, errctx.Wrap(err).Error("Failed to load the target stem for cleanup")
	}

	firstLeak, err := wavfile.Load(filepath.Join(output.TrackDir, engine.StemFileName(plan.LeakRoles[0])))
	if err != nil {
		return false, errctx.Wrap(err).Error("Failed to load the first leak component for cleanup")
	}

	secondLeak, err := wavfile.Load(filepath.Join(output.TrackDir, engine.StemFileName(plan.LeakRoles[1])))
	if err != nil {
		return false, errctx.Wrap(err).Error("Failed to load the second leak component for cleanup")
	}

	attenuated, err := mix.ScaledSubtract(target, firstLeak, secondLeak, r.orchestrator.params.CleanupAlpha)
	if err != nil {
		return false, errctx.Wrap(err).Error("Failed to attenuate the leak components in the target stem")
	}

	if err := wavfile.Save(targetPath, mix.NormalizePeak(mix.Clamp(attenuated))); err != nil {
		return false, errctx.Wrap(err).Error("Failed to persist the cleaned target stem")
	}

	return true, nil
}

// fillMissingRoles guarantees a file per configured role. Roles without one
// get a copy of the first role file that does exist, in configured order;
// roles that still can't be satisfied are reported as missing.
func (r *runState) fillMissingRoles(destDir string) {
	fillSource := ""
	for _, role := range r.orchestrator.plan.Roles {
		path := filepath.Join(destDir, engine.StemFileName(role))
		if fileExists(path) {
			fillSource = path
			break
		}
	}

	for _, role := range r.orchestrator.plan.Roles {
		path := filepath.Join(destDir, engine.StemFileName(role))
		if fileExists(path) {
			r.result.StemPaths[role] = path
			continue
		}

		if fillSource == "" {
			r.result.MissingRoles = append(r.result.MissingRoles, role)
			continue
		}

		if err := engine.CopyFile(fillSource, path); err != nil {
			cerr.Log(err)
			r.logger.WithField("role", role).
				Warn("Failed to fill a missing role from an existing stem")
			r.result.MissingRoles = append(r.result.MissingRoles, role)
			continue
		}

		r.logger.WithFields(log.Fields{
			"role":        role,
			"fill_source": fillSource,
		}).Warn("Filled a missing role with a copy of an existing stem")
		r.result.StemPaths[role] = path
	}
}

// fileExists reports a nonempty regular file at path. Zero-byte files count
// as absent so a failed earlier write doesn't mask a missing stem.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular() && info.Size() > 0
}
