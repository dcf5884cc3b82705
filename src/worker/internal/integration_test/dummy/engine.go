package dummy

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/pcm"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/wavfile"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/separation/engine"
)

var _ engine.Engine = &Engine{}

// TestSignal is a small valid signal for tests that don't care about the
// sample contents.
func TestSignal(value int, length int) pcm.Signal {
	samples := make([]int, length)
	for i := range samples {
		samples[i] = value
	}

	return pcm.Signal{
		NumChannels: 2,
		SampleRate:  44100,
		Samples:     samples,
	}
}

type NamedFile struct {
	Name   string
	Signal pcm.Signal
}

type Invocation struct {
	InputPath string
	OutputDir string
	Params    engine.Params
}

func NewDummyEngine() *Engine {
	return &Engine{
		Stems: map[string]pcm.Signal{},
	}
}

// Engine fakes a separation binary by writing configured signals straight
// into the output dir. Stems land as <role>.wav; Files land under their
// literal names, in order, for engines whose output names the caller
// can't rely on.
type Engine struct {
	Err   error
	Stems map[string]pcm.Signal
	Files []NamedFile

	Invocations []Invocation
	mutex       sync.Mutex
}

func (e *Engine) Separate(inputPath string, outputDir string, params engine.Params) (engine.Output, error) {
	e.mutex.Lock()
	e.Invocations = append(e.Invocations, Invocation{
		InputPath: inputPath,
		OutputDir: outputDir,
		Params:    params,
	})
	e.mutex.Unlock()

	if e.Err != nil {
		return engine.Output{}, e.Err
	}

	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return engine.Output{}, cerr.Wrap(err).Error("Failed to create the dummy output dir")
	}

	files := []string{}

	roles := make([]string, 0, len(e.Stems))
	for role := range e.Stems {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	for _, role := range roles {
		path := filepath.Join(outputDir, engine.StemFileName(role))
		if err := wavfile.Save(path, e.Stems[role]); err != nil {
			return engine.Output{}, cerr.Wrap(err).Error("Failed to write a dummy stem file")
		}

		files = append(files, path)
	}

	for _, namedFile := range e.Files {
		path := filepath.Join(outputDir, namedFile.Name)
		if err := wavfile.Save(path, namedFile.Signal); err != nil {
			return engine.Output{}, cerr.Wrap(err).Error("Failed to write a dummy named file")
		}

		files = append(files, path)
	}

	return engine.Output{
		TrackDir: outputDir,
		Files:    files,
	}, nil
}
