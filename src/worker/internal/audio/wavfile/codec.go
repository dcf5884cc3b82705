package wavfile

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors/domains"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/pcm"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

// ErrBadFormat marks containers that can't be parsed or that carry a sample
// width other than 16-bit. The pipeline only deals in 16-bit PCM.
var ErrBadFormat = domains.New("bad_wav_format")

func Load(path string) (pcm.Signal, error) {
	errctx := cerr.Field("wav_path", path)

	file, err := os.Open(path)
	if err != nil {
		return pcm.Signal{}, errctx.Wrap(err).Error("Failed to open wav file")
	}

	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return pcm.Signal{}, mark.Message(ErrBadFormat, "File is not a readable wav container: "+path)
	}

	if decoder.BitDepth != pcm.BitDepth {
		return pcm.Signal{}, mark.Message(ErrBadFormat, "Wav file does not carry 16-bit samples: "+path)
	}

	buffer, err := decoder.FullPCMBuffer()
	if err != nil {
		wrapped := errctx.Wrap(err).Error("Failed to read PCM samples from wav file")
		return pcm.Signal{}, mark.Wrap(wrapped, ErrBadFormat, "Wav data is unreadable")
	}

	return pcm.Signal{
		NumChannels: buffer.Format.NumChannels,
		SampleRate:  buffer.Format.SampleRate,
		Samples:     buffer.Data,
	}, nil
}

// Save writes the signal out as a 16-bit wav file. The write goes to a
// sibling temp file first and renames into place so a crash can't leave a
// truncated file at the destination path.
func Save(path string, signal pcm.Signal) error {
	errctx := cerr.Field("wav_path", path)

	tempFile, err := os.CreateTemp(filepath.Dir(path), ".stem-*.wav")
	if err != nil {
		return errctx.Wrap(err).Error("Failed to create a temp file next to the destination")
	}

	tempPath := tempFile.Name()
	removeTemp := func() {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
	}

	encoder := wav.NewEncoder(tempFile, signal.SampleRate, pcm.BitDepth, signal.NumChannels, 1)

	buffer := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: signal.NumChannels,
			SampleRate:  signal.SampleRate,
		},
		Data:           signal.Samples,
		SourceBitDepth: pcm.BitDepth,
	}

	if err := encoder.Write(buffer); err != nil {
		removeTemp()
		wrapped := errctx.Wrap(err).Error("Failed to encode PCM samples to wav")
		return mark.Wrap(wrapped, ErrBadFormat, "Wav data could not be written")
	}

	if err := encoder.Close(); err != nil {
		removeTemp()
		wrapped := errctx.Wrap(err).Error("Failed to finalize the wav encoding")
		return mark.Wrap(wrapped, ErrBadFormat, "Wav data could not be written")
	}

	if err := tempFile.Close(); err != nil {
		removeTemp()
		return errctx.Wrap(err).Error("Failed to close the temp wav file")
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return errctx.Wrap(err).Error("Failed to move the temp wav file into place")
	}

	return nil
}
