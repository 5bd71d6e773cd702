package icnspack

import (
	"fmt"
	"image"
	"image/color"

	"github.com/esimov/icnspack/utils"
	"github.com/pkg/errors"
)

// PixelFormat describes the channel layout of a PixelImage buffer.
type PixelFormat int

// The supported pixel formats.
const (
	Gray PixelFormat = iota + 1
	GrayAlpha
	RGB
	RGBA
)

func (f PixelFormat) String() string {
	switch f {
	case Gray:
		return "Gray"
	case GrayAlpha:
		return "GrayAlpha"
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// BytesPerPixel returns the number of bytes a single pixel occupies,
// or 0 for an unknown format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case Gray:
		return 1
	case GrayAlpha:
		return 2
	case RGB:
		return 3
	case RGBA:
		return 4
	}
	return 0
}

// PixelImage is a decoded raster with tightly packed, 8 bits per channel rows.
// It implements image.Image, so it can be handed to any resampler directly.
type PixelImage struct {
	Width  int
	Height int
	Format PixelFormat
	Pix    []byte
}

var _ image.Image = (*PixelImage)(nil)

// NewPixelImage wraps pix into a PixelImage after checking that the
// buffer length matches the dimensions and the pixel format.
func NewPixelImage(width, height int, format PixelFormat, pix []byte) (*PixelImage, error) {
	bpp := format.BytesPerPixel()
	if bpp == 0 {
		return nil, errors.Wrapf(ErrUnsupportedPixelFormat, "%v", format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*bpp {
		return nil, fmt.Errorf("pixel buffer has %d bytes, expected %d for %dx%d %v",
			len(pix), width*height*bpp, width, height, format)
	}
	return &PixelImage{Width: width, Height: height, Format: format, Pix: pix}, nil
}

// Side returns the square side length used for slot classification.
func (p *PixelImage) Side() int { return utils.Min(p.Width, p.Height) }

// ColorModel implements image.Image.
func (p *PixelImage) ColorModel() color.Model {
	if p.Format == Gray {
		return color.GrayModel
	}
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (p *PixelImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width, p.Height)
}

// At implements image.Image.
func (p *PixelImage) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(p.Bounds())) {
		return color.NRGBA{}
	}
	if p.Format == Gray {
		return color.Gray{Y: p.Pix[y*p.Width+x]}
	}
	r, g, b, a := p.nrgba(y*p.Width + x)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// nrgba returns the non-premultiplied channels of the i-th pixel.
func (p *PixelImage) nrgba(i int) (r, g, b, a uint8) {
	switch p.Format {
	case Gray:
		v := p.Pix[i]
		return v, v, v, 0xff
	case GrayAlpha:
		v := p.Pix[i*2]
		return v, v, v, p.Pix[i*2+1]
	case RGB:
		s := p.Pix[i*3 : i*3+3 : i*3+3]
		return s[0], s[1], s[2], 0xff
	default:
		s := p.Pix[i*4 : i*4+4 : i*4+4]
		return s[0], s[1], s[2], s[3]
	}
}

// FromImage converts the output of an image decoder into a PixelImage.
// Decoders with 16 bits per channel or non RGB color spaces are rejected
// with ErrUnsupportedPixelFormat.
func FromImage(img image.Image) (*PixelImage, error) {
	srcBounds := img.Bounds()
	srcMinX := srcBounds.Min.X
	srcMinY := srcBounds.Min.Y
	dstW := srcBounds.Dx()
	dstH := srcBounds.Dy()

	if dstW <= 0 || dstH <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", dstW, dstH)
	}

	switch src := img.(type) {
	case *PixelImage:
		if src.Format.BytesPerPixel() == 0 {
			return nil, errors.Wrapf(ErrUnsupportedPixelFormat, "%v", src.Format)
		}
		return src, nil
	case *image.Gray:
		dst := newPixelImage(dstW, dstH, Gray)
		for y := 0; y < dstH; y++ {
			si := src.PixOffset(srcMinX, srcMinY+y)
			copy(dst.Pix[y*dstW:(y+1)*dstW], src.Pix[si:si+dstW])
		}
		return dst, nil
	case *image.NRGBA:
		dst := newPixelImage(dstW, dstH, RGBA)
		rowSize := dstW * 4
		for y := 0; y < dstH; y++ {
			si := src.PixOffset(srcMinX, srcMinY+y)
			copy(dst.Pix[y*rowSize:(y+1)*rowSize], src.Pix[si:si+rowSize])
		}
		return dst, nil
	case *image.NYCbCrA:
		dst := newPixelImage(dstW, dstH, RGBA)
		di := 0
		for y := 0; y < dstH; y++ {
			for x := 0; x < dstW; x++ {
				srcX, srcY := srcMinX+x, srcMinY+y
				siy := src.YOffset(srcX, srcY)
				sic := src.COffset(srcX, srcY)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				dst.Pix[di+3] = src.A[src.AOffset(srcX, srcY)]
				di += 4
			}
		}
		return dst, nil
	case *image.YCbCr:
		dst := newPixelImage(dstW, dstH, RGB)
		di := 0
		for y := 0; y < dstH; y++ {
			for x := 0; x < dstW; x++ {
				siy := src.YOffset(srcMinX+x, srcMinY+y)
				sic := src.COffset(srcMinX+x, srcMinY+y)
				r, g, b := color.YCbCrToRGB(src.Y[siy], src.Cb[sic], src.Cr[sic])
				dst.Pix[di+0] = r
				dst.Pix[di+1] = g
				dst.Pix[di+2] = b
				di += 3
			}
		}
		return dst, nil
	case *image.RGBA, *image.Paletted:
		// Premultiplied and palette images are expanded to straight RGBA.
		dst := newPixelImage(dstW, dstH, RGBA)
		di := 0
		for y := 0; y < dstH; y++ {
			for x := 0; x < dstW; x++ {
				c := color.NRGBAModel.Convert(img.At(srcMinX+x, srcMinY+y)).(color.NRGBA)
				dst.Pix[di+0] = c.R
				dst.Pix[di+1] = c.G
				dst.Pix[di+2] = c.B
				dst.Pix[di+3] = c.A
				di += 4
			}
		}
		return dst, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedPixelFormat, "%T", img)
	}
}

// fromNRGBA converts the output of the resampler back to the given format.
func fromNRGBA(src *image.NRGBA, format PixelFormat) *PixelImage {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := newPixelImage(w, h, format)
	bpp := format.BytesPerPixel()

	di := 0
	for y := 0; y < h; y++ {
		si := src.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < w; x++ {
			s := src.Pix[si : si+4 : si+4]
			switch format {
			case Gray:
				dst.Pix[di] = s[0]
			case GrayAlpha:
				dst.Pix[di], dst.Pix[di+1] = s[0], s[3]
			case RGB:
				copy(dst.Pix[di:di+3], s[:3])
			default:
				copy(dst.Pix[di:di+4], s)
			}
			si += 4
			di += bpp
		}
	}
	return dst
}

// toStdImage returns an image from the standard library sharing no memory
// with p, suitable for the PNG encoder.
func (p *PixelImage) toStdImage() image.Image {
	if p.Format == Gray {
		dst := image.NewGray(p.Bounds())
		copy(dst.Pix, p.Pix)
		return dst
	}
	dst := image.NewNRGBA(p.Bounds())
	n := p.Width * p.Height
	for i := 0; i < n; i++ {
		r, g, b, a := p.nrgba(i)
		dst.Pix[i*4+0] = r
		dst.Pix[i*4+1] = g
		dst.Pix[i*4+2] = b
		dst.Pix[i*4+3] = a
	}
	return dst
}

func newPixelImage(w, h int, format PixelFormat) *PixelImage {
	return &PixelImage{
		Width:  w,
		Height: h,
		Format: format,
		Pix:    make([]byte, w*h*format.BytesPerPixel()),
	}
}
