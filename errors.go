package icnspack

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyFamily is returned when a family without a single populated
	// slot is serialized.
	ErrEmptyFamily = errors.New("no usable icon files found")
	// ErrUnsupportedPixelFormat is returned for images whose pixel layout
	// is none of Gray, GrayAlpha, RGB or RGBA.
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")
	// ErrFinalized is returned when inserting into an already serialized family.
	ErrFinalized = errors.New("icon family already finalized")
	// ErrNoIcons is returned by a bundler which has no icon sources at all.
	ErrNoIcons = errors.New("no icon files provided")
)

// Reason explains why an image was skipped.
type Reason int

const (
	// ReasonUnusable marks an image whose size maps to no slot.
	ReasonUnusable Reason = iota
	// ReasonDuplicate marks an image whose slot was already taken.
	ReasonDuplicate
)

// Diagnostic is a non-fatal, per image outcome: the image was skipped but
// packing goes on with the remaining ones.
type Diagnostic struct {
	Name    string
	Width   int
	Height  int
	Density Density
	Reason  Reason
	// Slot is the slot which was already occupied (ReasonDuplicate only).
	Slot SlotType
}

func (d *Diagnostic) Error() string {
	name := d.Name
	if name == "" {
		name = "image"
	}
	switch d.Reason {
	case ReasonDuplicate:
		return fmt.Sprintf("%s (%dx%d@%v): slot %v already filled, skipped", name, d.Width, d.Height, d.Density, d.Slot)
	default:
		return fmt.Sprintf("%s (%dx%d@%v): no matching icon slot, skipped", name, d.Width, d.Height, d.Density)
	}
}

// IsSoft reports whether err is a per image diagnostic rather than an
// error which should abort packing.
func IsSoft(err error) bool {
	var d *Diagnostic
	return errors.As(err, &d)
}
