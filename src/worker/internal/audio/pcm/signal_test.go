package pcm_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/pcm"
)

var _ = Describe("Signal", func() {
	Describe("Frames", func() {
		It("counts interleaved samples per channel", func() {
			signal := pcm.Signal{
				NumChannels: 2,
				SampleRate:  44100,
				Samples:     []int{1, 2, 3, 4, 5, 6},
			}

			Expect(signal.Frames()).To(Equal(3))
		})

		It("is zero for a zero value signal", func() {
			Expect(pcm.Signal{}.Frames()).To(Equal(0))
		})
	})

	Describe("Duration", func() {
		It("derives the duration from frames and sample rate", func() {
			signal := pcm.Signal{
				NumChannels: 2,
				SampleRate:  44100,
				Samples:     make([]int, 44100*2),
			}

			Expect(signal.Duration()).To(Equal(time.Second))
		})

		It("is zero for a zero value signal", func() {
			Expect(pcm.Signal{}.Duration()).To(Equal(time.Duration(0)))
		})
	})

	Describe("SameFormat", func() {
		It("matches on channel count and sample rate", func() {
			a := pcm.Signal{NumChannels: 2, SampleRate: 44100}
			b := pcm.Signal{NumChannels: 2, SampleRate: 44100, Samples: []int{1, 2}}

			Expect(a.SameFormat(b)).To(BeTrue())
		})

		It("rejects mismatched sample rates", func() {
			a := pcm.Signal{NumChannels: 2, SampleRate: 44100}
			b := pcm.Signal{NumChannels: 2, SampleRate: 48000}

			Expect(a.SameFormat(b)).To(BeFalse())
		})
	})

	Describe("PadToDuration", func() {
		It("pads a short signal with trailing silence", func() {
			signal := pcm.Signal{
				NumChannels: 2,
				SampleRate:  100,
				Samples:     []int{7, 8},
			}

			padded := signal.PadToDuration(time.Second)

			Expect(padded.Frames()).To(Equal(100))
			Expect(padded.Samples[0]).To(Equal(7))
			Expect(padded.Samples[1]).To(Equal(8))

			for _, sample := range padded.Samples[2:] {
				Expect(sample).To(Equal(0))
			}
		})

		It("leaves a long enough signal untouched", func() {
			signal := pcm.Signal{
				NumChannels: 1,
				SampleRate:  100,
				Samples:     make([]int, 150),
			}

			padded := signal.PadToDuration(time.Second)

			Expect(padded.Frames()).To(Equal(150))
		})

		It("leaves a zero value signal untouched", func() {
			padded := pcm.Signal{}.PadToDuration(time.Second)
			Expect(padded.Samples).To(BeEmpty())
		})
	})
})
