package download

import (
	"net/url"
	"strings"

	"github.com/veedubyou/stem-splitter-be/src/worker/internal/lib/cerr"
)

var youtubeHosts = []string{
	"youtube.com",
	"youtu.be",
}

func NewSelectDLer(youtubedler YoutubeDLer, genericdler GenericDLer) SelectDLer {
	return SelectDLer{
		youtubedler: youtubedler,
		genericdler: genericdler,
	}
}

// SelectDLer picks the downloader by source host: youtube links need the
// youtube-dl extraction path, everything else is fetched directly.
type SelectDLer struct {
	youtubedler YoutubeDLer
	genericdler GenericDLer
}

func (s SelectDLer) Download(sourceURL string, outputPath string) error {
	parsedURL, err := url.Parse(sourceURL)
	if err != nil {
		return cerr.Field("source_url", sourceURL).
			Wrap(err).Error("Failed to parse the source URL")
	}

	host := strings.TrimPrefix(parsedURL.Hostname(), "www.")
	for _, youtubeHost := range youtubeHosts {
		if host == youtubeHost {
			return s.youtubedler.Download(sourceURL, outputPath)
		}
	}

	return s.genericdler.Download(sourceURL, outputPath)
}
