package mix

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors/domains"
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/pcm"
)

// ErrFormatMismatch marks arithmetic over signals that disagree on channel
// count or sample rate. Callers skip the current refinement on it, they don't
// abort the run.
var ErrFormatMismatch = domains.New("signal_format_mismatch")

// Add sums two signals elementwise over the length of the shorter one.
// The tail of the longer signal is discarded, never padded.
func Add(a pcm.Signal, b pcm.Signal) (pcm.Signal, error) {
	if !a.SameFormat(b) {
		return pcm.Signal{}, formatMismatch(a, b)
	}

	length := minLen(len(a.Samples), len(b.Samples))
	sum := make([]int, length)
	for i := 0; i < length; i++ {
		sum[i] = a.Samples[i] + b.Samples[i]
	}

	return result(a, sum), nil
}

// Subtract computes a-b elementwise with the same trimming policy as Add.
func Subtract(a pcm.Signal, b pcm.Signal) (pcm.Signal, error) {
	if !a.SameFormat(b) {
		return pcm.Signal{}, formatMismatch(a, b)
	}

	length := minLen(len(a.Samples), len(b.Samples))
	diff := make([]int, length)
	for i := 0; i < length; i++ {
		diff[i] = a.Samples[i] - b.Samples[i]
	}

	return result(a, diff), nil
}

// ScaledSubtract computes a[i] - alpha*(b[i]+c[i]) over the common trimmed
// length, rounding to the nearest integer.
func ScaledSubtract(a pcm.Signal, b pcm.Signal, c pcm.Signal, alpha float64) (pcm.Signal, error) {
	if !a.SameFormat(b) {
		return pcm.Signal{}, formatMismatch(a, b)
	}
	if !a.SameFormat(c) {
		return pcm.Signal{}, formatMismatch(a, c)
	}

	length := minLen(len(a.Samples), minLen(len(b.Samples), len(c.Samples)))
	attenuated := make([]int, length)
	for i := 0; i < length; i++ {
		attenuated[i] = a.Samples[i] - int(math.Round(alpha*float64(b.Samples[i]+c.Samples[i])))
	}

	return result(a, attenuated), nil
}

// Clamp16 saturates x to the 16-bit signed sample range.
func Clamp16(x int) int {
	if x > pcm.MaxSampleValue {
		return pcm.MaxSampleValue
	}
	if x < pcm.MinSampleValue {
		return pcm.MinSampleValue
	}

	return x
}

func ClampSamples(samples []int) []int {
	clamped := make([]int, len(samples))
	for i, sample := range samples {
		clamped[i] = Clamp16(sample)
	}

	return clamped
}

// NormalizePeakSamples rescales so the peak absolute value lands exactly on
// the 16-bit maximum. Empty or all-silent input comes back unchanged.
func NormalizePeakSamples(samples []int) []int {
	maxAbs := 0
	for _, sample := range samples {
		abs := sample
		if abs < 0 {
			abs = -abs
		}
		if abs > maxAbs {
			maxAbs = abs
		}
	}

	if maxAbs == 0 {
		return samples
	}

	scale := float64(pcm.MaxSampleValue) / float64(maxAbs)
	normalized := make([]int, len(samples))
	for i, sample := range samples {
		normalized[i] = Clamp16(int(math.Round(float64(sample) * scale)))
	}

	return normalized
}

func Clamp(s pcm.Signal) pcm.Signal {
	return result(s, ClampSamples(s.Samples))
}

func NormalizePeak(s pcm.Signal) pcm.Signal {
	return result(s, NormalizePeakSamples(s.Samples))
}

func formatMismatch(a pcm.Signal, b pcm.Signal) error {
	msg := fmt.Sprintf("Signal formats don't match: %dch@%dHz vs %dch@%dHz",
		a.NumChannels, a.SampleRate, b.NumChannels, b.SampleRate)
	return mark.Message(ErrFormatMismatch, msg)
}

func minLen(a int, b int) int {
	if a < b {
		return a
	}

	return b
}

func result(format pcm.Signal, samples []int) pcm.Signal {
	return pcm.Signal{
		NumChannels: format.NumChannels,
		SampleRate:  format.SampleRate,
		Samples:     samples,
	}
}
