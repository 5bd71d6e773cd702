package icnspack

import (
	"bytes"
	"encoding/binary"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/esimov/icnspack/utils"
	"github.com/pkg/errors"
)

// containerMagic opens every container; it is followed by the total file
// length as a big-endian uint32.
const containerMagic = "icns"

const elementHeaderLen = 8

// Icon is a decoded candidate image together with its display density.
// Name is only used for diagnostics and error messages.
type Icon struct {
	Name  string
	Image image.Image
	// Density defaults to Standard when left zero.
	Density Density
}

// Family accumulates encoded images keyed by slot. The first image
// inserted for a slot wins; later candidates for the same slot are
// skipped with a diagnostic. Callers which care about which image ends
// up in a slot must therefore insert candidates in a meaningful order.
//
// A Family is not safe for concurrent use. Independent families can be
// built in parallel.
type Family struct {
	// Filter is the resampling filter used to shrink oversized images.
	// The zero value selects imaging.Lanczos.
	Filter imaging.ResampleFilter

	slots     map[SlotType][]element
	finalized bool
}

// NewFamily creates an empty icon family.
func NewFamily() *Family {
	return &Family{
		Filter: imaging.Lanczos,
		slots:  make(map[SlotType][]element),
	}
}

// Len returns the number of populated slots.
func (f *Family) Len() int { return len(f.slots) }

// Has reports whether slot is already populated.
func (f *Family) Has(slot SlotType) bool {
	_, ok := f.slots[slot]
	return ok
}

// Slots returns the populated slots in container order.
func (f *Family) Slots() []SlotType {
	var res []SlotType
	for _, s := range Slots() {
		if f.Has(s) {
			res = append(res, s)
		}
	}
	return res
}

// Insert classifies, resamples if needed, encodes and stores icon.
//
// Unusable sizes and slots which are already taken result in a
// *Diagnostic; check with IsSoft and carry on with the next image. The
// pixel format is only checked for images which claim a free slot. Any
// other error, such as ErrUnsupportedPixelFormat, is fatal.
func (f *Family) Insert(icon Icon) error {
	if f.finalized {
		return ErrFinalized
	}
	c := classifyIcon(icon)
	if c.diag != nil {
		return c.diag
	}
	if f.Has(c.class.Slot) {
		return c.duplicate()
	}
	if err := f.encode(c); err != nil {
		return err
	}
	f.store(c)
	return nil
}

// candidate is a classified image, encoded once it has won its slot.
type candidate struct {
	icon     Icon
	class    Classification
	elements []element
	diag     *Diagnostic
}

// classifyIcon only looks at the image bounds, so it is cheap enough to
// run for every image before deciding which ones get encoded.
func classifyIcon(icon Icon) *candidate {
	icon.Density = icon.Density.orStandard()
	b := icon.Image.Bounds()
	w, h := b.Dx(), b.Dy()

	c := &candidate{icon: icon, class: Classify(utils.Min(w, h), icon.Density)}
	if c.class.Verdict == Unusable {
		c.diag = &Diagnostic{
			Name:    icon.Name,
			Width:   w,
			Height:  h,
			Density: icon.Density,
			Reason:  ReasonUnusable,
			Slot:    -1,
		}
	}
	return c
}

// duplicate returns the diagnostic of a candidate whose slot is taken.
func (c *candidate) duplicate() *Diagnostic {
	b := c.icon.Image.Bounds()
	return &Diagnostic{
		Name:    c.icon.Name,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Density: c.icon.Density,
		Reason:  ReasonDuplicate,
		Slot:    c.class.Slot,
	}
}

// encode converts, resamples and encodes the candidate image. It reads
// nothing but the filter, so several candidates can be encoded at once.
func (f *Family) encode(c *candidate) error {
	img, err := FromImage(c.icon.Image)
	if err != nil {
		return errors.WithMessagef(err, "%s for slot %v", nameOf(c.icon), c.class.Slot)
	}

	target := c.class.Slot.PixelSize()
	if img.Width != target || img.Height != target {
		img = f.resample(img, target)
	}

	c.elements, err = encodeSlot(c.class.Slot, img)
	if err != nil {
		return errors.WithMessage(err, nameOf(c.icon))
	}
	return nil
}

func (f *Family) store(c *candidate) {
	if f.slots == nil {
		f.slots = make(map[SlotType][]element)
	}
	f.slots[c.class.Slot] = c.elements
}

// resample shrinks img to a side x side square keeping its pixel format.
func (f *Family) resample(img *PixelImage, side int) *PixelImage {
	filter := f.Filter
	if filter.Support == 0 && filter.Kernel == nil {
		filter = imaging.Lanczos
	}
	dst := imaging.Resize(img, side, side, filter)
	return fromNRGBA(dst, img.Format)
}

// WriteTo serializes the family into w and finalizes it: no more images
// can be inserted afterwards.
func (f *Family) WriteTo(w io.Writer) (int64, error) {
	if f.finalized {
		return 0, ErrFinalized
	}
	if len(f.slots) == 0 {
		return 0, ErrEmptyFamily
	}
	f.finalized = true

	total := len(containerMagic) + 4
	for _, elems := range f.slots {
		for _, e := range elems {
			total += elementHeaderLen + len(e.data)
		}
	}

	buf := make([]byte, 8, total)
	copy(buf, containerMagic)
	binary.BigEndian.PutUint32(buf[4:], uint32(total))

	for _, slot := range f.Slots() {
		for _, e := range f.slots[slot] {
			buf = append(buf, e.ostype...)
			buf = binary.BigEndian.AppendUint32(buf, uint32(elementHeaderLen+len(e.data)))
			buf = append(buf, e.data...)
		}
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), errors.Wrap(err, "writing icon container")
	}
	return int64(n), nil
}

// Bytes serializes and finalizes the family.
func (f *Family) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nameOf(icon Icon) string {
	if icon.Name == "" {
		return "image"
	}
	return icon.Name
}
