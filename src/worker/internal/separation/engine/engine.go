package engine

import (
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/cockroachdb/errors/domains"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

var (
	// ErrEngineFailed marks a separation binary returning nonzero or being
	// unrunnable. Fatal for the primary pass, skippable for later passes.
	ErrEngineFailed = domains.New("separation_engine_failed")

	// ErrOutputNotFound marks a run where the engine exited zero but the
	// expected output tree never materialized.
	ErrOutputNotFound = domains.New("separation_output_not_found")
)

// Params are numeric tuning values passed through to the engine. Engines
// ignore the ones they don't support.
type Params struct {
	Overlap float64
	Shifts  int
}

// Output describes where one separation run left its stems. TrackDir is the
// resolved directory owning the stem files; Files lists them in directory
// order, which matters to classifiers relying on positional fallback.
type Output struct {
	TrackDir string
	Files    []string
}

//counterfeiter:generate . Engine
type Engine interface {
	Separate(inputPath string, outputDir string, params Params) (Output, error)
}

// StemFileName maps a stem role to the file name engines emit for it.
func StemFileName(role string) string {
	return role + ".wav"
}

// CollectStems copies each requested role's stem file from the resolved track
// dir to destDir. Roles the engine didn't produce are skipped without error;
// the completeness-fill step owns absence.
func CollectStems(trackDir string, roles []string, destDir string) (map[string]string, error) {
	if err := os.MkdirAll(destDir, os.ModePerm); err != nil {
		return nil, cerr.Field("dest_dir", destDir).
			Wrap(err).Error("Failed to create the stem destination dir")
	}

	collected := map[string]string{}

	for _, role := range roles {
		sourcePath := filepath.Join(trackDir, StemFileName(role))
		if _, err := os.Stat(sourcePath); err != nil {
			log.WithFields(log.Fields{
				"role":      role,
				"track_dir": trackDir,
			}).Warn("Engine did not produce this stem, skipping")
			continue
		}

		destPath := filepath.Join(destDir, StemFileName(role))
		if err := CopyFile(sourcePath, destPath); err != nil {
			return nil, cerr.Field("role", role).
				Wrap(err).Error("Failed to copy a produced stem to its destination")
		}

		collected[role] = destPath
	}

	return collected, nil
}

func CopyFile(sourcePath string, destPath string) error {
	contents, err := os.ReadFile(sourcePath)
	if err != nil {
		return cerr.Field("source_path", sourcePath).
			Wrap(err).Error("Failed to read the source file")
	}

	if err := os.WriteFile(destPath, contents, 0o644); err != nil {
		return cerr.Field("dest_path", destPath).
			Wrap(err).Error("Failed to write the destination file")
	}

	return nil
}
