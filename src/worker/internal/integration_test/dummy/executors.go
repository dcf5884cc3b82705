package dummy

import (
	"os"
	"path/filepath"

	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/pcm"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/wavfile"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/executor"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/separation/engine"
)

// funcCommand adapts a closure to the executor.Command interface so dummy
// executors can do their side effects at CombinedOutput time, like the real
// binaries would.
type funcCommand struct {
	run func() ([]byte, error)
}

func (f funcCommand) SetDir(dir string) {}

func (f funcCommand) CombinedOutput() ([]byte, error) {
	return f.run()
}

// argValue returns the argument following the given flag.
func argValue(args []string, flag string) (string, bool) {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1], true
		}
	}

	return "", false
}

var _ executor.Executor = &YoutubeDLExecutor{}

func NewDummyYoutubeDLExecutor() *YoutubeDLExecutor {
	return &YoutubeDLExecutor{
		urlContents: map[string][]byte{},
	}
}

// YoutubeDLExecutor emulates youtube-dl: it writes the registered contents
// for the requested URL to the -o output path.
type YoutubeDLExecutor struct {
	urlContents map[string][]byte
}

func (y *YoutubeDLExecutor) AddURL(url string, contents []byte) {
	y.urlContents[url] = contents
}

func (y *YoutubeDLExecutor) Command(name string, args ...string) executor.Command {
	return funcCommand{run: func() ([]byte, error) {
		outputPath, ok := argValue(args, "-o")
		if !ok {
			return []byte("no output path given"), cerr.Error("No -o flag in youtube-dl args")
		}

		url := args[len(args)-1]
		contents, ok := y.urlContents[url]
		if !ok {
			return []byte("unknown url"), cerr.Field("url", url).Error("URL was not registered with the dummy")
		}

		if err := os.WriteFile(outputPath, contents, 0o644); err != nil {
			return []byte("write failed"), err
		}

		return []byte("ok"), nil
	}}
}

var _ executor.Executor = &DemucsExecutor{}

func NewDummyDemucsExecutor() *DemucsExecutor {
	return &DemucsExecutor{
		TrackDirName: "original",
		Stems:        map[string]pcm.Signal{},
	}
}

// DemucsExecutor emulates the demucs output layout: stems go under
// <outputDir>/<model>/<track name>/<role>.wav. The track dir name is
// configurable because real demucs normalizes it unpredictably.
type DemucsExecutor struct {
	TrackDirName string
	Stems        map[string]pcm.Signal

	Commands [][]string
}

func (d *DemucsExecutor) Command(name string, args ...string) executor.Command {
	return funcCommand{run: func() ([]byte, error) {
		d.Commands = append(d.Commands, args)

		model, ok := argValue(args, "-n")
		if !ok {
			return []byte("no model given"), cerr.Error("No -n flag in demucs args")
		}

		outputDir, ok := argValue(args, "-o")
		if !ok {
			return []byte("no output dir given"), cerr.Error("No -o flag in demucs args")
		}

		trackDir := filepath.Join(outputDir, model, d.TrackDirName)
		if err := os.MkdirAll(trackDir, os.ModePerm); err != nil {
			return []byte("mkdir failed"), err
		}

		for role, signal := range d.Stems {
			if err := wavfile.Save(filepath.Join(trackDir, engine.StemFileName(role)), signal); err != nil {
				return []byte("write failed"), err
			}
		}

		return []byte("ok"), nil
	}}
}

var _ executor.Executor = &RoformerExecutor{}

func NewDummyRoformerExecutor() *RoformerExecutor {
	return &RoformerExecutor{}
}

// RoformerExecutor emulates audio-separator: output files land flat in the
// --output_dir under model-controlled names.
type RoformerExecutor struct {
	Files []NamedFile

	Commands [][]string
}

func (r *RoformerExecutor) Command(name string, args ...string) executor.Command {
	return funcCommand{run: func() ([]byte, error) {
		r.Commands = append(r.Commands, args)

		outputDir, ok := argValue(args, "--output_dir")
		if !ok {
			return []byte("no output dir given"), cerr.Error("No --output_dir flag in audio-separator args")
		}

		if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
			return []byte("mkdir failed"), err
		}

		for _, namedFile := range r.Files {
			if err := wavfile.Save(filepath.Join(outputDir, namedFile.Name), namedFile.Signal); err != nil {
				return []byte("write failed"), err
			}
		}

		return []byte("ok"), nil
	}}
}
