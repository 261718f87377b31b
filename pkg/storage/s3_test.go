package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileImageKey(t *testing.T) {
	key := ProfileImageKey(12, "Me.PNG")

	assert.True(t, strings.HasPrefix(key, "profiles/12/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, ProfileImageKey(12, "Me.PNG"))
}

func TestPublicURL(t *testing.T) {
	c := &S3Client{bucket: "ourmemory"}
	assert.Equal(t, "https://ourmemory.s3.amazonaws.com/profiles/1/a.png", c.publicURL("profiles/1/a.png"))

	c.cdnURL = "https://cdn.ourmemory.app"
	assert.Equal(t, "https://cdn.ourmemory.app/profiles/1/a.png", c.publicURL("profiles/1/a.png"))
}
