// Package frame holds decoded video frames in a display-ready form.
package frame

import (
	"errors"
	"fmt"
)

// BytesPerPixel is the size of one BGRA pixel.
const BytesPerPixel = 4

var (
	ErrInvalidSize = errors.New("invalid frame size")
	ErrShortStride = errors.New("source stride shorter than a row")
	ErrShortFrame  = errors.New("source frame shorter than buffer")
)

// Buffer is a tightly packed 32-bit BGRA image owned by a single goroutine.
type Buffer struct {
	width  int
	height int
	pixels []byte
}

// NewBuffer allocates a zeroed buffer of width x height pixels.
func NewBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	return &Buffer{
		width:  width,
		height: height,
		pixels: make([]byte, width*height*BytesPerPixel),
	}, nil
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// Stride is the number of bytes per row.
func (b *Buffer) Stride() int { return b.width * BytesPerPixel }

// Pixels exposes the backing storage. Callers must not retain it across frames.
func (b *Buffer) Pixels() []byte { return b.pixels }

// AspectRatio is width over height.
func (b *Buffer) AspectRatio() float64 {
	return float64(b.width) / float64(b.height)
}

// Matches reports whether the buffer has exactly the given dimensions.
func (b *Buffer) Matches(width, height int) bool {
	return b.width == width && b.height == height
}

// CopyFrom copies a frame with the buffer's dimensions whose rows are stride bytes apart.
func (b *Buffer) CopyFrom(src []byte, stride int) error {
	row := b.Stride()
	if stride < row {
		return fmt.Errorf("%w: %d < %d", ErrShortStride, stride, row)
	}

	need := stride*(b.height-1) + row
	if len(src) < need {
		return fmt.Errorf("%w: %d < %d bytes", ErrShortFrame, len(src), need)
	}

	if stride == row {
		copy(b.pixels, src[:len(b.pixels)])
		return nil
	}

	for y := 0; y < b.height; y++ {
		copy(b.pixels[y*row:(y+1)*row], src[y*stride:y*stride+row])
	}
	return nil
}
