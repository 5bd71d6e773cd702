package icnspack

import (
	"fmt"
	"math/bits"
)

// Verdict is the outcome of classifying a candidate image.
type Verdict int

const (
	// Unusable means no slot accepts the image, neither at its own size
	// nor after rounding it down to a power of two.
	Unusable Verdict = iota
	// Direct means the image fits a slot as it is.
	Direct
	// NeedsResize means the image has to be downsampled to Target first.
	NeedsResize
)

func (v Verdict) String() string {
	switch v {
	case Direct:
		return "direct"
	case NeedsResize:
		return "needs resize"
	}
	return "unusable"
}

// Classification holds the classifier verdict for a single candidate.
// Slot is set for Direct and NeedsResize, Target only for NeedsResize.
type Classification struct {
	Verdict Verdict
	Slot    SlotType
	Target  int
}

func (c Classification) String() string {
	switch c.Verdict {
	case Direct:
		return fmt.Sprintf("direct %v", c.Slot)
	case NeedsResize:
		return fmt.Sprintf("resize to %dpx for %v", c.Target, c.Slot)
	}
	return c.Verdict.String()
}

// FloorPow2 rounds side down to the nearest power of two.
// It returns 0 for non-positive values.
func FloorPow2(side int) int {
	if side <= 0 {
		return 0
	}
	return 1 << (bits.Len(uint(side)) - 1)
}

// Classify maps the square side length of an image and its density onto
// a slot. Images are only ever shrunk: a side length which has no slot of
// its own is rounded down to a power of two, never up. A zero density
// is classified as Standard.
func Classify(side int, d Density) Classification {
	d = d.orStandard()
	if side <= 0 {
		return Classification{Verdict: Unusable, Slot: -1}
	}
	if slot, ok := SlotFor(side, d); ok {
		return Classification{Verdict: Direct, Slot: slot}
	}
	target := FloorPow2(side)
	if target < side {
		if slot, ok := SlotFor(target, d); ok {
			return Classification{Verdict: NeedsResize, Slot: slot, Target: target}
		}
	}
	return Classification{Verdict: Unusable, Slot: -1}
}
