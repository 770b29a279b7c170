package assets_test

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/assets"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 0, G: 173, B: 181, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "profile.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestResume_ReturnsExactBytes(t *testing.T) {
	t.Parallel()

	want := []byte("%PDF-1.4\n\x00\x01binary resume\n%%EOF")
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, want, 0o600))

	got, err := assets.NewLoader(300).Resume(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResume_MissingIsNotFound(t *testing.T) {
	t.Parallel()

	l := assets.NewLoader(300)

	_, err := l.Resume(filepath.Join(t.TempDir(), "R1.pdf"))
	require.ErrorIs(t, err, assets.ErrNotFound)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = l.Resume("")
	require.ErrorIs(t, err, assets.ErrNotFound)
}

func TestProfileImage_ScalesToWidth(t *testing.T) {
	t.Parallel()

	path := writePNG(t, 600, 400)

	img, err := assets.NewLoader(300).ProfileImage(path)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Width)
	assert.Equal(t, 200, img.Height)

	uri := img.DataURI()
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	decoded, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 300, decoded.Bounds().Dx())
}

func TestProfileImage_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	garbage := filepath.Join(dir, "not-an-image.png")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not a png"), 0o600))

	l := assets.NewLoader(300)
	for _, path := range []string{"", filepath.Join(dir, "missing.png"), garbage} {
		_, err := l.ProfileImage(path)
		assert.ErrorIs(t, err, assets.ErrNotFound, path)
	}
}

func TestResumeAvailable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "resume.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	l := assets.NewLoader(300)
	require.NoError(t, l.ResumeAvailable(path))

	for _, p := range []string{"", filepath.Join(dir, "missing.pdf"), dir} {
		assert.ErrorIs(t, l.ResumeAvailable(p), assets.ErrNotFound, p)
	}

	require.NoError(t, os.Remove(path))
	assert.ErrorIs(t, l.ResumeAvailable(path), assets.ErrNotFound)
}

func TestProfileImage_ReloadsWhenFileChanges(t *testing.T) {
	t.Parallel()

	path := writePNG(t, 600, 400)
	l := assets.NewLoader(300)

	first, err := l.ProfileImage(path)
	require.NoError(t, err)
	again, err := l.ProfileImage(path)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 300, 300))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	changed, err := l.ProfileImage(path)
	require.NoError(t, err)
	assert.Equal(t, 300, changed.Height)
}

func TestProfileImage_RemovedAfterCaching(t *testing.T) {
	t.Parallel()

	path := writePNG(t, 60, 60)
	l := assets.NewLoader(30)

	_, err := l.ProfileImage(path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	_, err = l.ProfileImage(path)
	require.ErrorIs(t, err, assets.ErrNotFound)
}
