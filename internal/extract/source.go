package extract

import (
	"strings"

	"inlay/internal/entity"
)

// ImageSource is the resolved output unit for one extracted image: its file
// identity plus the public access URL and declared MIME type.
type ImageSource struct {
	ID   string `json:"id"`
	UUID string `json:"uuid"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// ImageURLAndType resolves a file to its public URL and MIME type. Stateless;
// baseURL comes from configuration.
func ImageURLAndType(baseURL string, f *entity.File) ImageSource {
	return ImageSource{
		ID:   f.ID,
		UUID: f.UUID,
		URL:  joinURL(baseURL, f.URI),
		Type: f.MIME,
	}
}

// Sources resolves a list of extracted files in order.
func Sources(baseURL string, files []*entity.File) []ImageSource {
	sources := make([]ImageSource, len(files))
	for i, f := range files {
		sources[i] = ImageURLAndType(baseURL, f)
	}
	return sources
}

// joinURL joins a base URL and a storage-relative URI with exactly one slash.
func joinURL(base, uri string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(uri, "/")
}
