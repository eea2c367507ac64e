package iconconv

import (
	"bytes"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/k1LoW/errors"
	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

const (
	// IconSize is the edge length in pixels of every generated bitmap.
	IconSize = 48

	// Alpha values above alphaCutoff become fully opaque, the rest fully
	// transparent. The hard mask removes anti-aliasing fringes around the
	// key color.
	alphaCutoff = 128

	// Channel values below darkCutoff are lifted to darkGray. Applied to
	// each of R, G, B independently.
	darkCutoff = 50
	darkGray   = 60
)

// keyColor is the transparency key. The toolbar image list treats this
// color as see-through, since the bitmap format carries no alpha
// channel.
var keyColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

func decodeIcon(r io.Reader) (_ *image.NRGBA, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	img, err := png.Decode(r)
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

// toNRGBA normalizes to non-premultiplied RGBA at a zero origin so the
// per-channel thresholds see raw color values.
func toNRGBA(img image.Image) *image.NRGBA {
	if m, ok := img.(*image.NRGBA); ok && m.Bounds().Min == (image.Point{}) {
		return m
	}
	b := img.Bounds()
	m := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(m, m.Bounds(), img, b.Min, draw.Src)
	return m
}

// renderIcon runs the pixel pipeline: resize, mask, recolor, composite
// onto the key-color canvas.
func renderIcon(src image.Image) *image.RGBA {
	m := toNRGBA(resize.Resize(IconSize, IconSize, toNRGBA(src), resize.Lanczos3))
	maskAndRecolor(m)
	return compositeOnKey(m)
}

// maskAndRecolor thresholds the alpha channel to a strict 0/255 mask
// and lifts near-black channel values to darkGray, in place. Each
// color channel is thresholded on its own, not by pixel luminance.
func maskAndRecolor(m *image.NRGBA) {
	for i := 0; i < len(m.Pix); i += 4 {
		for j := 0; j < 3; j++ {
			if m.Pix[i+j] < darkCutoff {
				m.Pix[i+j] = darkGray
			}
		}
		if m.Pix[i+3] > alphaCutoff {
			m.Pix[i+3] = 0xff
		} else {
			m.Pix[i+3] = 0
		}
	}
}

// compositeOnKey pastes m onto a key-color canvas using its hard alpha
// mask as a stencil. The result is fully opaque.
func compositeOnKey(m *image.NRGBA) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, IconSize, IconSize))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(keyColor), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), m, image.Point{}, draw.Over)
	return dst
}

// encodeIcon encodes the composited canvas as BMP. The canvas is fully
// opaque, so it encodes as 24-bit color with no alpha channel.
func encodeIcon(m *image.RGBA) (_ []byte, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	buf := new(bytes.Buffer)
	if err := bmp.Encode(buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func checksum(b []byte) uint32 {
	return crc32.ChecksumIEEE(b)
}
