package engine_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/audio/wavfile"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/integration_test/dummy"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/separation/engine"
)

var _ = Describe("CollectStems", func() {
	var (
		tempDir  string
		trackDir string
		destDir  string
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "collect-test-*")
		Expect(err).NotTo(HaveOccurred())

		trackDir = filepath.Join(tempDir, "track")
		destDir = filepath.Join(tempDir, "dest")

		Expect(os.MkdirAll(trackDir, os.ModePerm)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	writeStem := func(role string, value int) {
		path := filepath.Join(trackDir, engine.StemFileName(role))
		Expect(wavfile.Save(path, dummy.TestSignal(value, 32))).To(Succeed())
	}

	It("copies each produced role to the destination", func() {
		writeStem("vocals", 100)
		writeStem("drums", 200)

		collected, err := engine.CollectStems(trackDir, []string{"vocals", "drums"}, destDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(collected).To(Equal(map[string]string{
			"vocals": filepath.Join(destDir, "vocals.wav"),
			"drums":  filepath.Join(destDir, "drums.wav"),
		}))

		loaded, err := wavfile.Load(collected["vocals"])
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Samples).To(Equal(dummy.TestSignal(100, 32).Samples))
	})

	It("skips roles the engine did not produce", func() {
		writeStem("vocals", 100)

		collected, err := engine.CollectStems(trackDir, []string{"vocals", "drums", "bass"}, destDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(collected).To(HaveLen(1))
		Expect(collected).To(HaveKey("vocals"))
	})

	It("ignores extra files the roles don't ask for", func() {
		writeStem("vocals", 100)
		writeStem("drums", 200)

		collected, err := engine.CollectStems(trackDir, []string{"vocals"}, destDir)
		Expect(err).NotTo(HaveOccurred())

		Expect(collected).To(HaveLen(1))
		Expect(collected).To(HaveKey("vocals"))
	})
})
