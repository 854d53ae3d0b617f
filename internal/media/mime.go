package media

import (
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// sniffImage detects the content type from the payload bytes and reports
// whether it is an accepted image format.
func sniffImage(data []byte) (contentType, ext string, ok bool) {
	detected := mimetype.Detect(data)
	contentType = strings.ToLower(detected.String())
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext, ok = imageExtensions[contentType]
	return contentType, ext, ok
}

func acceptedImageTypes() string {
	out := make([]string, 0, len(imageExtensions))
	for ct := range imageExtensions {
		out = append(out, ct)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
