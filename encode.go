package icnspack

import (
	"bytes"
	"image/png"

	"github.com/pkg/errors"
)

// element is a single tagged record of the container.
type element struct {
	ostype string
	data   []byte
}

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// encodeSlot turns a square image of the right size into the container
// elements of the slot.
func encodeSlot(slot SlotType, img *PixelImage) ([]element, error) {
	if img.Format.BytesPerPixel() == 0 {
		return nil, errors.Wrapf(ErrUnsupportedPixelFormat, "%v for slot %v", img.Format, slot)
	}
	if img.Width != slot.PixelSize() || img.Height != slot.PixelSize() {
		return nil, errors.Errorf("image of %dx%d does not fit slot %v", img.Width, img.Height, slot)
	}

	switch slot.Encoding() {
	case EncodingRLE24:
		var prefix []byte
		if slot == Icon128x128 {
			prefix = []byte{0, 0, 0, 0}
		}
		return []element{
			{ostype: slot.OSType(), data: encodeRLE24(img, prefix)},
			{ostype: slot.MaskOSType(), data: alphaMask(img)},
		}, nil
	default:
		var buf bytes.Buffer
		if err := pngEncoder.Encode(&buf, img.toStdImage()); err != nil {
			return nil, errors.Wrapf(err, "encoding %v", slot)
		}
		return []element{{ostype: slot.OSType(), data: buf.Bytes()}}, nil
	}
}

// encodeRLE24 compresses the red, green and blue planes one after the other.
func encodeRLE24(img *PixelImage, prefix []byte) []byte {
	n := img.Width * img.Height
	plane := make([]byte, n)
	out := append([]byte(nil), prefix...)

	for c := 0; c < 3; c++ {
		for i := 0; i < n; i++ {
			r, g, b, _ := img.nrgba(i)
			plane[i] = [3]uint8{r, g, b}[c]
		}
		out = packBits(out, plane)
	}
	return out
}

// packBits appends the run length encoding of src to dst. A header byte
// below 0x80 introduces header+1 literal bytes, a header byte of 0x80 or
// above repeats the following byte header-0x80+3 times.
func packBits(dst, src []byte) []byte {
	const (
		maxLiteral = 128
		minRun     = 3
		maxRun     = 130
	)

	i := 0
	for i < len(src) {
		run := 1
		for i+run < len(src) && run < maxRun && src[i+run] == src[i] {
			run++
		}
		if run >= minRun {
			dst = append(dst, byte(0x80+run-minRun), src[i])
			i += run
			continue
		}

		start := i
		for i < len(src) && i-start < maxLiteral {
			if i+2 < len(src) && src[i] == src[i+1] && src[i] == src[i+2] {
				break
			}
			i++
		}
		dst = append(dst, byte(i-start-1))
		dst = append(dst, src[start:i]...)
	}
	return dst
}

// unpackBits reverses packBits, expecting exactly n decoded bytes.
func unpackBits(src []byte, n int) ([]byte, []byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		if len(src) == 0 {
			return nil, nil, errors.New("truncated run length data")
		}
		h := int(src[0])
		src = src[1:]
		if h < 0x80 {
			cnt := h + 1
			if len(src) < cnt {
				return nil, nil, errors.New("truncated literal run")
			}
			out = append(out, src[:cnt]...)
			src = src[cnt:]
		} else {
			if len(src) == 0 {
				return nil, nil, errors.New("truncated repeat run")
			}
			for k := 0; k < h-0x80+3; k++ {
				out = append(out, src[0])
			}
			src = src[1:]
		}
	}
	if len(out) != n {
		return nil, nil, errors.Errorf("run length data decodes to %d bytes, expected %d", len(out), n)
	}
	return out, src, nil
}

func alphaMask(img *PixelImage) []byte {
	n := img.Width * img.Height
	mask := make([]byte, n)
	for i := 0; i < n; i++ {
		_, _, _, mask[i] = img.nrgba(i)
	}
	return mask
}
