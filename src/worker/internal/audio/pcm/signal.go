package pcm

import "time"

const (
	BitDepth       = 16
	MaxSampleValue = 32767
	MinSampleValue = -32768
)

// Signal is an uncompressed 16-bit signed audio buffer, interleaved by
// channel. Operations never mutate a Signal in place; they return new ones.
type Signal struct {
	NumChannels int
	SampleRate  int
	Samples     []int
}

func (s Signal) SameFormat(other Signal) bool {
	return s.NumChannels == other.NumChannels && s.SampleRate == other.SampleRate
}

func (s Signal) Frames() int {
	if s.NumChannels == 0 {
		return 0
	}

	return len(s.Samples) / s.NumChannels
}

func (s Signal) Duration() time.Duration {
	if s.SampleRate == 0 {
		return 0
	}

	return time.Duration(s.Frames()) * time.Second / time.Duration(s.SampleRate)
}

// PadToDuration appends silence until the signal is at least minDuration
// long. Separation models reject inputs below a minimum length, so short
// clips get padded before invocation.
func (s Signal) PadToDuration(minDuration time.Duration) Signal {
	if s.NumChannels == 0 || s.SampleRate == 0 {
		return s
	}

	minFrames := int(minDuration.Seconds() * float64(s.SampleRate))
	if s.Frames() >= minFrames {
		return s
	}

	paddedSamples := make([]int, minFrames*s.NumChannels)
	copy(paddedSamples, s.Samples)

	return Signal{
		NumChannels: s.NumChannels,
		SampleRate:  s.SampleRate,
		Samples:     paddedSamples,
	}
}
