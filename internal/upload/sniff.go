package upload

import "bytes"

// AllowedContentTypes are the declared MIME types accepted on multipart
// uploads.
var AllowedContentTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// SniffImageExt inspects magic bytes and returns a file extension. Unknown
// content falls back to jpg, matching how uploads were historically stored.
func SniffImageExt(content []byte) string {
	switch {
	case bytes.HasPrefix(content, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case len(content) >= 12 && bytes.Equal(content[:4], []byte("RIFF")) && bytes.Equal(content[8:12], []byte("WEBP")):
		return "webp"
	case bytes.HasPrefix(content, []byte("GIF")):
		return "gif"
	default:
		return "jpg"
	}
}

// ContentTypeForExt maps a stored extension back to its MIME type.
func ContentTypeForExt(ext string) string {
	for ct, e := range AllowedContentTypes {
		if e == ext {
			return ct
		}
	}
	return "image/jpeg"
}
