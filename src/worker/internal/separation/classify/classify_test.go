package classify_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/separation/classify"
)

var _ = Describe("LeadBacking", func() {
	It("assigns roles from filename hints", func() {
		files := []string{
			"/out/song_(Instrumental)_model.wav",
			"/out/song_(Vocals)_model.wav",
		}

		assigned := classify.LeadBacking(files)

		Expect(assigned).To(Equal(map[string]string{
			classify.LeadRole:    "/out/song_(Vocals)_model.wav",
			classify.BackingRole: "/out/song_(Instrumental)_model.wav",
		}))
	})

	It("matches hints case insensitively", func() {
		files := []string{
			"/out/SONG_LEAD.WAV",
			"/out/SONG_BACKING.WAV",
		}

		assigned := classify.LeadBacking(files)

		Expect(assigned[classify.LeadRole]).To(Equal("/out/SONG_LEAD.WAV"))
		Expect(assigned[classify.BackingRole]).To(Equal("/out/SONG_BACKING.WAV"))
	})

	It("never assigns the same file to both roles", func() {
		// "lead_no_vocal" contains hints for both roles
		files := []string{
			"/out/lead_no_vocal.wav",
			"/out/accompaniment.wav",
		}

		assigned := classify.LeadBacking(files)

		Expect(assigned[classify.LeadRole]).NotTo(Equal(assigned[classify.BackingRole]))
	})

	It("falls back to positional assignment when hints don't resolve", func() {
		files := []string{
			"/out/output_1.wav",
			"/out/output_2.wav",
		}

		assigned := classify.LeadBacking(files)

		Expect(assigned).To(Equal(map[string]string{
			classify.LeadRole:    "/out/output_1.wav",
			classify.BackingRole: "/out/output_2.wav",
		}))
	})

	It("falls back to positional assignment when only one hint matches", func() {
		files := []string{
			"/out/mystery.wav",
			"/out/song_main_out.wav",
		}

		assigned := classify.LeadBacking(files)

		Expect(assigned).To(Equal(map[string]string{
			classify.LeadRole:    "/out/mystery.wav",
			classify.BackingRole: "/out/song_main_out.wav",
		}))
	})

	It("returns a partial assignment for a single hinted file", func() {
		files := []string{"/out/song_lead.wav"}

		assigned := classify.LeadBacking(files)

		Expect(assigned).To(Equal(map[string]string{
			classify.LeadRole: "/out/song_lead.wav",
		}))
	})

	It("returns nothing for no files", func() {
		Expect(classify.LeadBacking(nil)).To(BeEmpty())
	})
})
