package discord

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageDataURI(t *testing.T) {
	png := append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, make([]byte, 16)...)
	uri := imageDataURI(png)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"), "got %q", uri)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hola", truncate("hola"))

	long := strings.Repeat("a", maxMessageLen+50)
	got := truncate(long)
	assert.Len(t, []rune(got), maxMessageLen)
	assert.True(t, strings.HasSuffix(got, "…"))

	// Multi-byte content must be cut on rune boundaries.
	emoji := strings.Repeat("⚽", maxMessageLen+50)
	got = truncate(emoji)
	assert.Len(t, []rune(got), maxMessageLen)
	assert.True(t, strings.HasSuffix(got, "…"))
}
