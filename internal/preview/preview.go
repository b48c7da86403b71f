package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"blockmesh/internal/registry"
	"blockmesh/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Background is the color of columns with nothing visible.
var Background = color.RGBA{R: 20, G: 20, B: 28, A: 255}

// TopDown renders the highest visible block of every column of v, seen from
// +Z, each block pixelsPerBlock pixels wide. +Y points up in the image.
// Lower columns are drawn darker.
func TopDown(v *world.Volume, reg registry.Registry, pixelsPerBlock int) *image.RGBA {
	d := v.Dims()
	small := image.NewRGBA(image.Rect(0, 0, d[0], d[1]))
	for y := 0; y < d[1]; y++ {
		for x := 0; x < d[0]; x++ {
			small.SetRGBA(x, d[1]-1-y, columnColor(v, reg, v.Min[0]+x, v.Min[1]+y))
		}
	}
	if pixelsPerBlock <= 1 {
		return small
	}

	out := image.NewRGBA(image.Rect(0, 0, d[0]*pixelsPerBlock, d[1]*pixelsPerBlock))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), small, small.Bounds(), xdraw.Src, nil)
	return out
}

func columnColor(v *world.Volume, reg registry.Registry, x, y int) color.RGBA {
	height := v.Max[2] - v.Min[2] + 1
	for z := v.Max[2]; z >= v.Min[2]; z-- {
		id := v.GetBlock(x, y, z)
		if id == registry.Air || reg == nil {
			continue
		}
		d := reg.Get(id)
		if d == nil || !d.Visible() {
			continue
		}
		shade := 0.6 + 0.4*float32(z-v.Min[2]+1)/float32(height)
		return toRGBA(d.Faces[registry.FacePosZ].Color, shade)
	}
	return Background
}

func toRGBA(c mgl32.Vec4, shade float32) color.RGBA {
	ch := func(f float32) uint8 {
		return uint8(mgl32.Clamp(f, 0, 1)*255 + 0.5)
	}
	return color.RGBA{R: ch(c[0] * shade), G: ch(c[1] * shade), B: ch(c[2] * shade), A: 255}
}

// Label draws text in the top left corner.
func Label(img *image.RGBA, text string) {
	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(2, basicfont.Face7x13.Ascent+2),
	}
	dr.DrawString(text)
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("preview: encode %s: %w", path, err)
	}
	return f.Close()
}
