// Package assets reads the two optional files a portfolio can point at: the
// profile image and the resume document.
package assets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // decoder registration
	_ "image/jpeg"
	"image/png"
	"os"
	"sync"
	"time"

	"golang.org/x/image/draw"
)

// ErrNotFound is the single failure kind for asset loads: missing path,
// unreadable file or undecodable image.
var ErrNotFound = errors.New("asset not found")

// Image is a profile picture scaled to the display width and re-encoded
// as PNG.
type Image struct {
	PNG    []byte
	Width  int
	Height int
}

// DataURI returns the image inline as a data: URI.
func (i Image) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(i.PNG)
}

// Loader reads assets from the local filesystem. Scaled images are cached
// per path and reused while the file's size and modification time match.
type Loader struct {
	width int

	mu     sync.Mutex
	images map[string]cachedImage
}

type cachedImage struct {
	modTime time.Time
	size    int64
	image   Image
}

// NewLoader returns a Loader that scales images to width pixels.
func NewLoader(width int) *Loader {
	return &Loader{width: width, images: make(map[string]cachedImage)}
}

// ResumeAvailable reports, without reading it, whether the resume at path
// is a regular file.
func (l *Loader) ResumeAvailable(path string) error {
	if path == "" {
		return fmt.Errorf("resume: %w", ErrNotFound)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("resume %s: %w: %w", path, ErrNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("resume %s: %w: not a regular file", path, ErrNotFound)
	}
	return nil
}

// Resume returns the bytes of the resume document.
func (l *Loader) Resume(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("resume: %w", ErrNotFound)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("resume %s: %w: %w", path, ErrNotFound, err)
	}
	return data, nil
}

// ProfileImage decodes the image at path and scales it to the loader width,
// keeping the aspect ratio. The file is checked on every call; decoding only
// happens when it changed.
func (l *Loader) ProfileImage(path string) (Image, error) {
	if path == "" {
		return Image{}, fmt.Errorf("profile image: %w", ErrNotFound)
	}

	img, err := l.profileImage(path)
	if err != nil {
		l.mu.Lock()
		delete(l.images, path)
		l.mu.Unlock()
		return Image{}, err
	}
	return img, nil
}

func (l *Loader) profileImage(path string) (Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return Image{}, fmt.Errorf("profile image %s: %w: %w", path, ErrNotFound, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Image{}, fmt.Errorf("profile image %s: %w: %w", path, ErrNotFound, err)
	}

	l.mu.Lock()
	cached, ok := l.images[path]
	l.mu.Unlock()
	if ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		return cached.image, nil
	}

	src, _, err := image.Decode(f)
	if err != nil {
		return Image{}, fmt.Errorf("profile image %s: %w: decode: %w", path, ErrNotFound, err)
	}

	scaled := scaleToWidth(src, l.width)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return Image{}, fmt.Errorf("profile image %s: %w: encode: %w", path, ErrNotFound, err)
	}

	b := scaled.Bounds()
	img := Image{PNG: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}

	l.mu.Lock()
	l.images[path] = cachedImage{modTime: info.ModTime(), size: info.Size(), image: img}
	l.mu.Unlock()

	return img, nil
}

func scaleToWidth(src image.Image, width int) image.Image {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 || width <= 0 {
		return src
	}

	height := sb.Dy() * width / sb.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Over, nil)
	return dst
}
