package sim

import "math"

// SMPTE color bars, simplified to eight bars.
var colorBars = [8][3]uint8{
	{192, 192, 192},
	{192, 192, 0},
	{0, 192, 192},
	{0, 192, 0},
	{192, 0, 192},
	{192, 0, 0},
	{0, 0, 192},
	{16, 16, 16},
}

// paint renders color bars with a white box circling the center into a
// packed BGRA frame. frameNum drives the box.
func paint(pixels []byte, width, height int, frameNum uint64) {
	barWidth := max(width/len(colorBars), 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rgb := colorBars[min(x/barWidth, len(colorBars)-1)]
			setPixel(pixels, width, x, y, rgb)
		}
	}

	box := max(min(width, height)/6, 2)
	radius := float64(min(width, height)) / 4
	angle := float64(frameNum) * 0.05
	boxX := width/2 + int(radius*math.Cos(angle)) - box/2
	boxY := height/2 + int(radius*math.Sin(angle)) - box/2

	for y := max(boxY, 0); y < boxY+box && y < height; y++ {
		for x := max(boxX, 0); x < boxX+box && x < width; x++ {
			setPixel(pixels, width, x, y, [3]uint8{235, 235, 235})
		}
	}
}

func setPixel(pixels []byte, width, x, y int, rgb [3]uint8) {
	i := (y*width + x) * 4
	pixels[i+0] = rgb[2]
	pixels[i+1] = rgb[1]
	pixels[i+2] = rgb[0]
	pixels[i+3] = 0xff
}
