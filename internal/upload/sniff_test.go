package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffImageExt(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n"), 0, 0, 0, 0)
	assert.Equal(t, "png", SniffImageExt(png))

	webp := append([]byte("RIFF\x00\x00\x00\x00WEBP"), 0, 0)
	assert.Equal(t, "webp", SniffImageExt(webp))

	assert.Equal(t, "gif", SniffImageExt([]byte("GIF89a")))

	// JPEG and anything unrecognized fall back to jpg.
	assert.Equal(t, "jpg", SniffImageExt([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
	assert.Equal(t, "jpg", SniffImageExt([]byte("plain text")))
	assert.Equal(t, "jpg", SniffImageExt(nil))
}

func TestContentTypeForExt(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeForExt("png"))
	assert.Equal(t, "image/webp", ContentTypeForExt("webp"))
	assert.Equal(t, "image/gif", ContentTypeForExt("gif"))
	assert.Equal(t, "image/jpeg", ContentTypeForExt("jpg"))
	assert.Equal(t, "image/jpeg", ContentTypeForExt("bmp"))
}
