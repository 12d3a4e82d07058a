package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mediasurface/mediasurface/frame"
)

// maxPreviewWidth caps the preview in terminal columns.
const maxPreviewWidth = 48

// upperHalf shows the top pixel in the foreground and the bottom one in the background.
const upperHalf = "▀"

func (b *statefulBubble) refreshPreview() {
	b.frameDirty = false
	b.preview = renderPreview(b.player.Frame(), min(b.width, maxPreviewWidth))
}

// renderPreview draws buf with nearest-neighbour sampling, two pixel rows per line.
func renderPreview(buf *frame.Buffer, cols int) string {
	if buf == nil || cols <= 0 {
		return ""
	}

	w, h := buf.Width(), buf.Height()
	rows := max(int(float64(cols)*float64(h)/float64(w)/2+0.5), 1)

	pixels := buf.Pixels()
	stride := buf.Stride()
	color := func(x, y int) lipgloss.Color {
		i := y*stride + x*frame.BytesPerPixel
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", pixels[i+2], pixels[i+1], pixels[i]))
	}

	var sb strings.Builder
	for row := 0; row < rows; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}

		top := (2 * row) * h / (2 * rows)
		bottom := (2*row + 1) * h / (2 * rows)

		for col := 0; col < cols; col++ {
			x := col * w / cols
			sb.WriteString(lipgloss.NewStyle().
				Foreground(color(x, top)).
				Background(color(x, bottom)).
				Render(upperHalf))
		}
	}

	return sb.String()
}
