package reader

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	// Standard formats plus the extended set style guides link to.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageInfo describes a local image referenced by a document.
type ImageInfo struct {
	Path   string
	Format string
	Width  int
	Height int
	Size   int64
}

// ProbeImage opens a local image target and decodes its header. The
// target is resolved against dir unless already absolute.
func ProbeImage(dir, target string) (ImageInfo, error) {
	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, filepath.FromSlash(target))
	}

	f, err := os.Open(path)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to stat image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("failed to decode image %s: %w", target, err)
	}
	return ImageInfo{
		Path:   path,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   info.Size(),
	}, nil
}
