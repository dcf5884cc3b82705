package download_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/integration_test/dummy"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/jobs/transfer/download"
)

var _ = Describe("Download", func() {
	var (
		tempDir    string
		outputPath string
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "download-test-*")
		Expect(err).NotTo(HaveOccurred())

		outputPath = filepath.Join(tempDir, "original.wav")
	})

	AfterEach(func() {
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	Describe("YoutubeDLer", func() {
		It("extracts the source audio to the output path", func() {
			executor := dummy.NewDummyYoutubeDLExecutor()
			executor.AddURL("https://www.youtube.com/watch?v=abc", []byte("audio bytes"))

			youtubedler := download.NewYoutubeDLer("/bin/youtube-dl", executor)

			err := youtubedler.Download("https://www.youtube.com/watch?v=abc", outputPath)
			Expect(err).NotTo(HaveOccurred())

			contents, err := os.ReadFile(outputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(contents).To(Equal([]byte("audio bytes")))
		})
	})

	Describe("GenericDLer", func() {
		It("fetches a direct link to the output path", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, err := w.Write([]byte("direct audio bytes"))
				Expect(err).NotTo(HaveOccurred())
			}))
			defer server.Close()

			genericdler := download.NewGenericDLer()

			err := genericdler.Download(server.URL+"/original.wav", outputPath)
			Expect(err).NotTo(HaveOccurred())

			contents, err := os.ReadFile(outputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(contents).To(Equal([]byte("direct audio bytes")))
		})

		It("fails on a non-success status", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			genericdler := download.NewGenericDLer()

			err := genericdler.Download(server.URL+"/original.wav", outputPath)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SelectDLer", func() {
		var (
			executor   *dummy.YoutubeDLExecutor
			server     *httptest.Server
			selectdler download.SelectDLer
		)

		BeforeEach(func() {
			executor = dummy.NewDummyYoutubeDLExecutor()

			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, err := w.Write([]byte("generic bytes"))
				Expect(err).NotTo(HaveOccurred())
			}))

			selectdler = download.NewSelectDLer(
				download.NewYoutubeDLer("/bin/youtube-dl", executor),
				download.NewGenericDLer(),
			)
		})

		AfterEach(func() {
			server.Close()
		})

		It("routes youtube links through youtube-dl", func() {
			executor.AddURL("https://www.youtube.com/watch?v=abc", []byte("youtube bytes"))

			err := selectdler.Download("https://www.youtube.com/watch?v=abc", outputPath)
			Expect(err).NotTo(HaveOccurred())

			contents, err := os.ReadFile(outputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(contents).To(Equal([]byte("youtube bytes")))
		})

		It("routes short youtube links through youtube-dl", func() {
			executor.AddURL("https://youtu.be/abc", []byte("youtube bytes"))

			err := selectdler.Download("https://youtu.be/abc", outputPath)
			Expect(err).NotTo(HaveOccurred())

			contents, err := os.ReadFile(outputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(contents).To(Equal([]byte("youtube bytes")))
		})

		It("routes everything else through the generic downloader", func() {
			err := selectdler.Download(server.URL+"/song.wav", outputPath)
			Expect(err).NotTo(HaveOccurred())

			contents, err := os.ReadFile(outputPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(contents).To(Equal([]byte("generic bytes")))
		})

		It("fails on an unparseable URL", func() {
			err := selectdler.Download("ht tp://bad url", outputPath)
			Expect(err).To(HaveOccurred())
		})
	})
})
