package mix_test

import (
	"github.com/cockroachdb/errors/markers"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/mix"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/pcm"
)

func signal(samples ...int) pcm.Signal {
	return pcm.Signal{
		NumChannels: 1,
		SampleRate:  44100,
		Samples:     samples,
	}
}

var _ = Describe("Mix", func() {
	Describe("Add", func() {
		It("sums elementwise", func() {
			sum, err := mix.Add(signal(1, 2, 3), signal(10, 20, 30))
			Expect(err).NotTo(HaveOccurred())
			Expect(sum.Samples).To(Equal([]int{11, 22, 33}))
		})

		It("trims to the shorter signal", func() {
			sum, err := mix.Add(signal(1, 2, 3, 4), signal(10, 20))
			Expect(err).NotTo(HaveOccurred())
			Expect(sum.Samples).To(Equal([]int{11, 22}))
		})

		It("rejects signals of different formats", func() {
			stereo := pcm.Signal{NumChannels: 2, SampleRate: 44100, Samples: []int{1, 2}}

			_, err := mix.Add(signal(1, 2), stereo)
			Expect(err).To(HaveOccurred())
			Expect(markers.Is(err, mix.ErrFormatMismatch)).To(BeTrue())
		})
	})

	Describe("Subtract", func() {
		It("subtracts elementwise", func() {
			diff, err := mix.Subtract(signal(10, 20, 30), signal(1, 2, 3))
			Expect(err).NotTo(HaveOccurred())
			Expect(diff.Samples).To(Equal([]int{9, 18, 27}))
		})

		It("trims to the shorter signal", func() {
			diff, err := mix.Subtract(signal(10, 20), signal(1, 2, 3, 4))
			Expect(err).NotTo(HaveOccurred())
			Expect(diff.Samples).To(Equal([]int{9, 18}))
		})

		It("cancels out a previous add", func() {
			a := signal(100, -200, 300)
			b := signal(5, 10, -15)

			sum, err := mix.Add(a, b)
			Expect(err).NotTo(HaveOccurred())

			restored, err := mix.Subtract(sum, b)
			Expect(err).NotTo(HaveOccurred())
			Expect(restored.Samples).To(Equal(a.Samples))
		})

		It("rejects signals of different formats", func() {
			slower := pcm.Signal{NumChannels: 1, SampleRate: 22050, Samples: []int{1, 2}}

			_, err := mix.Subtract(signal(1, 2), slower)
			Expect(err).To(HaveOccurred())
			Expect(markers.Is(err, mix.ErrFormatMismatch)).To(BeTrue())
		})
	})

	Describe("ScaledSubtract", func() {
		It("attenuates the summed components, rounding to nearest", func() {
			attenuated, err := mix.ScaledSubtract(
				signal(100, 100, 100),
				signal(10, 5, 0),
				signal(10, 4, 1),
				0.6,
			)
			Expect(err).NotTo(HaveOccurred())

			// 100-round(0.6*20)=88, 100-round(0.6*9)=95, 100-round(0.6*1)=99
			Expect(attenuated.Samples).To(Equal([]int{88, 95, 99}))
		})

		It("trims to the shortest of the three signals", func() {
			attenuated, err := mix.ScaledSubtract(
				signal(100, 100, 100),
				signal(0, 0),
				signal(0, 0, 0, 0),
				0.6,
			)
			Expect(err).NotTo(HaveOccurred())
			Expect(attenuated.Samples).To(HaveLen(2))
		})

		It("rejects a leak signal of a different format", func() {
			stereo := pcm.Signal{NumChannels: 2, SampleRate: 44100, Samples: []int{1, 2}}

			_, err := mix.ScaledSubtract(signal(1, 2), signal(1, 2), stereo, 0.6)
			Expect(err).To(HaveOccurred())
			Expect(markers.Is(err, mix.ErrFormatMismatch)).To(BeTrue())
		})
	})

	Describe("Clamp", func() {
		It("saturates samples outside the 16-bit range", func() {
			clamped := mix.Clamp(signal(40000, -40000, 123))
			Expect(clamped.Samples).To(Equal([]int{32767, -32768, 123}))
		})

		It("leaves in-range samples untouched", func() {
			clamped := mix.Clamp(signal(32767, -32768, 0))
			Expect(clamped.Samples).To(Equal([]int{32767, -32768, 0}))
		})
	})

	Describe("NormalizePeak", func() {
		It("scales the peak up to the 16-bit maximum", func() {
			normalized := mix.NormalizePeak(signal(16384, -8192, 0))

			Expect(normalized.Samples[0]).To(Equal(32767))
			// -8192 * 32767/16384 rounds to -16384
			Expect(normalized.Samples[1]).To(Equal(-16384))
			Expect(normalized.Samples[2]).To(Equal(0))
		})

		It("scales a negative peak to the maximum magnitude", func() {
			normalized := mix.NormalizePeak(signal(-16384, 100))

			Expect(normalized.Samples[0]).To(Equal(-32767))
		})

		It("leaves silence untouched", func() {
			normalized := mix.NormalizePeak(signal(0, 0, 0))
			Expect(normalized.Samples).To(Equal([]int{0, 0, 0}))
		})

		It("is stable once the peak is at the maximum", func() {
			once := mix.NormalizePeak(signal(20000, -10000, 5000))
			twice := mix.NormalizePeak(once)

			Expect(twice.Samples).To(Equal(once.Samples))
		})
	})

	Describe("Clamping before normalizing", func() {
		It("brings an overflowing sum back into range with the peak at maximum", func() {
			a := signal(30000, 10000)
			b := signal(30000, -2000)

			sum, err := mix.Add(a, b)
			Expect(err).NotTo(HaveOccurred())
			Expect(sum.Samples[0]).To(BeNumerically(">", 32767))

			final := mix.NormalizePeak(mix.Clamp(sum))
			Expect(final.Samples[0]).To(Equal(32767))
			Expect(final.Samples[1]).To(Equal(8000))
		})
	})
})
