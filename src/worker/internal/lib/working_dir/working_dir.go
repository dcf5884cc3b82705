package working_dir

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

func NewWorkingDir(workingDirStr string) (WorkingDir, error) {
	absWorkingDir, err := filepath.Abs(workingDirStr)
	if err != nil {
		return WorkingDir{}, errors.Wrap(err, "Failed to convert working dir path to absolute format")
	}

	if err := os.MkdirAll(absWorkingDir, os.ModePerm); err != nil {
		return WorkingDir{}, errors.Wrap(err, "Failed to create the working dir")
	}

	tempDir := filepath.Join(absWorkingDir, "tmp")
	if err := os.MkdirAll(tempDir, os.ModePerm); err != nil {
		return WorkingDir{}, errors.Wrap(err, "Failed to create the temp dir inside the working dir")
	}

	return WorkingDir{
		root: absWorkingDir,
	}, nil
}

type WorkingDir struct {
	root string
}

func (w WorkingDir) Root() string {
	return w.root
}

func (w WorkingDir) TempDir() string {
	return filepath.Join(w.root, "tmp")
}
