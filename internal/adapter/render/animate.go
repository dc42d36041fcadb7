package render

import (
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
)

var errNoFrames = errors.New("no frames to animate")

// EncodeGIF writes frames as a looping animation, each shown for delay
// hundredths of a second.
func EncodeGIF(w io.Writer, frames []image.Image, delay int) error {
	if len(frames) == 0 {
		return errNoFrames
	}
	anim := &gif.GIF{
		Image: make([]*image.Paletted, len(frames)),
		Delay: make([]int, len(frames)),
	}
	for i, frame := range frames {
		bounds := frame.Bounds()
		p := image.NewPaletted(bounds, palette.Plan9)
		draw.FloydSteinberg.Draw(p, bounds, frame, bounds.Min)
		anim.Image[i] = p
		anim.Delay[i] = delay
	}
	return gif.EncodeAll(w, anim)
}
