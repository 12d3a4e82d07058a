package frame

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"time"

	"github.com/mediasurface/mediasurface/filesystem"
	"github.com/mediasurface/mediasurface/util"
)

// Image converts the buffer to an opaque RGBA image.
func (b *Buffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for i := 0; i < len(b.pixels); i += BytesPerPixel {
		img.Pix[i+0] = b.pixels[i+2]
		img.Pix[i+1] = b.pixels[i+1]
		img.Pix[i+2] = b.pixels[i+0]
		img.Pix[i+3] = 0xff
	}
	return img
}

// EncodePNG writes the buffer to w as a PNG image.
func EncodePNG(w io.Writer, b *Buffer) error {
	return png.Encode(w, b.Image())
}

// SaveSnapshot writes the buffer as a PNG into dir and returns the file path.
// The name is derived from source and the playback position.
func SaveSnapshot(dir, source string, position time.Duration, b *Buffer) (string, error) {
	name := fmt.Sprintf("%s_%d.png", util.SanitizeFilename(util.FileStem(source)), position.Milliseconds())
	path := filepath.Join(dir, name)

	f, err := filesystem.API().Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	if err := EncodePNG(f, b); err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	return path, nil
}
