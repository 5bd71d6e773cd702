package icnspack

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"io"

	"github.com/pkg/errors"
)

// Element is a single record of a parsed icon container.
type Element struct {
	OSType string
	Data   []byte
}

// Container is the parsed form of an icon container file.
type Container struct {
	Elements []Element
}

// ReadContainer parses an icon container and checks that the element
// lengths add up to the length announced in the header.
func ReadContainer(r io.Reader) (*Container, error) {
	var hdr [8]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.Wrap(err, "reading container header")
	}
	if string(hdr[:4]) != containerMagic {
		return nil, errors.Errorf("invalid container magic %q", hdr[:4])
	}
	total := binary.BigEndian.Uint32(hdr[4:])
	if total < 8 {
		return nil, errors.Errorf("invalid container length %d", total)
	}

	// The announced length is not trusted for allocation.
	body, err := io.ReadAll(io.LimitReader(r, int64(total)-8))
	if err != nil {
		return nil, errors.Wrap(err, "reading container body")
	}
	if len(body) != int(total)-8 {
		return nil, errors.Errorf("truncated container: header announces %d bytes, got %d", total, len(body)+8)
	}

	c := &Container{}
	for len(body) > 0 {
		if len(body) < elementHeaderLen {
			return nil, errors.New("truncated element header")
		}
		n := binary.BigEndian.Uint32(body[4:8])
		if n < elementHeaderLen || int64(n) > int64(len(body)) {
			return nil, errors.Errorf("element %q has invalid length %d", body[:4], n)
		}
		c.Elements = append(c.Elements, Element{
			OSType: string(body[:4]),
			Data:   body[elementHeaderLen:n],
		})
		body = body[n:]
	}
	return c, nil
}

// Element returns the first element with the given tag.
func (c *Container) Element(ostype string) (Element, bool) {
	for _, e := range c.Elements {
		if e.OSType == ostype {
			return e, true
		}
	}
	return Element{}, false
}

// Slots returns the slots present in the container, in file order.
// Mask elements and unknown tags are left out.
func (c *Container) Slots() []SlotType {
	var res []SlotType
	for _, e := range c.Elements {
		for _, s := range Slots() {
			if s.OSType() == e.OSType {
				res = append(res, s)
			}
		}
	}
	return res
}

// Image decodes the picture stored in slot.
func (c *Container) Image(slot SlotType) (image.Image, error) {
	e, ok := c.Element(slot.OSType())
	if !ok {
		return nil, errors.Errorf("container has no %v element", slot)
	}
	if slot.Encoding() == EncodingPNG {
		img, err := png.Decode(bytes.NewReader(e.Data))
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %v", slot)
		}
		return img, nil
	}

	side := slot.PixelSize()
	n := side * side
	data := e.Data
	if slot == Icon128x128 {
		if len(data) < 4 {
			return nil, errors.Errorf("truncated %v element", slot)
		}
		data = data[4:]
	}

	var planes [3][]byte
	for i := range planes {
		var err error
		planes[i], data, err = unpackBits(data, n)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %v", slot)
		}
	}

	var alpha []byte
	if m, ok := c.Element(slot.MaskOSType()); ok && len(m.Data) == n {
		alpha = m.Data
	}

	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i := 0; i < n; i++ {
		img.Pix[i*4+0] = planes[0][i]
		img.Pix[i*4+1] = planes[1][i]
		img.Pix[i*4+2] = planes[2][i]
		img.Pix[i*4+3] = 0xff
		if alpha != nil {
			img.Pix[i*4+3] = alpha[i]
		}
	}
	return img, nil
}
