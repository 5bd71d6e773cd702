package icnspack

import "fmt"

// Density is the display scale factor an icon image is meant for.
// The zero value is treated as Standard.
type Density uint8

// The supported display densities.
const (
	Standard Density = 1
	Retina   Density = 2
)

func (d Density) String() string {
	switch d {
	case Standard:
		return "1x"
	case Retina:
		return "2x"
	}
	return fmt.Sprintf("Density(%d)", uint8(d))
}

func (d Density) orStandard() Density {
	if d == 0 {
		return Standard
	}
	return d
}

// Encoding tells how the payload of a slot is stored inside the container.
type Encoding int

const (
	// EncodingPNG stores the image as a PNG stream.
	EncodingPNG Encoding = iota
	// EncodingRLE24 stores packbits compressed RGB planes followed by
	// a separate 8-bit alpha mask element.
	EncodingRLE24
)

// SlotType identifies one of the fixed icon slots of the container format.
type SlotType int

// The slots known to the packer. The order of the constants is the order
// in which the slots are written into the container.
const (
	Icon16x16 SlotType = iota
	Icon32x32
	Icon48x48
	Icon64x64
	Icon128x128
	Icon256x256
	Icon512x512
	Icon16x16Retina
	Icon32x32Retina
	Icon128x128Retina
	Icon256x256Retina
	Icon512x512Retina

	numSlots
)

type slotInfo struct {
	name     string
	ostype   string
	mask     string
	pixels   int
	density  Density
	encoding Encoding
}

var slotTable = [numSlots]slotInfo{
	Icon16x16:         {"16x16", "is32", "s8mk", 16, Standard, EncodingRLE24},
	Icon32x32:         {"32x32", "il32", "l8mk", 32, Standard, EncodingRLE24},
	Icon48x48:         {"48x48", "ih32", "h8mk", 48, Standard, EncodingRLE24},
	Icon64x64:         {"64x64", "icp6", "", 64, Standard, EncodingPNG},
	Icon128x128:       {"128x128", "it32", "t8mk", 128, Standard, EncodingRLE24},
	Icon256x256:       {"256x256", "ic08", "", 256, Standard, EncodingPNG},
	Icon512x512:       {"512x512", "ic09", "", 512, Standard, EncodingPNG},
	Icon16x16Retina:   {"16x16@2x", "ic11", "", 32, Retina, EncodingPNG},
	Icon32x32Retina:   {"32x32@2x", "ic12", "", 64, Retina, EncodingPNG},
	Icon128x128Retina: {"128x128@2x", "ic13", "", 256, Retina, EncodingPNG},
	Icon256x256Retina: {"256x256@2x", "ic14", "", 512, Retina, EncodingPNG},
	Icon512x512Retina: {"512x512@2x", "ic10", "", 1024, Retina, EncodingPNG},
}

// Slots returns every slot type in container order.
func Slots() []SlotType {
	slots := make([]SlotType, numSlots)
	for i := range slots {
		slots[i] = SlotType(i)
	}
	return slots
}

// SlotFor returns the slot which accepts a square image of the given
// pixel size at the given density. The second return value is false
// when no such slot exists.
func SlotFor(pixels int, d Density) (SlotType, bool) {
	for i, s := range slotTable {
		if s.pixels == pixels && s.density == d {
			return SlotType(i), true
		}
	}
	return -1, false
}

func (s SlotType) valid() bool { return s >= 0 && s < numSlots }

// PixelSize returns the side length in pixels of the image held by the slot.
func (s SlotType) PixelSize() int { return slotTable[s].pixels }

// Density returns the display density of the slot.
func (s SlotType) Density() Density { return slotTable[s].density }

// OSType returns the four character element tag of the slot.
func (s SlotType) OSType() string { return slotTable[s].ostype }

// MaskOSType returns the tag of the companion alpha mask element,
// or an empty string if the slot carries its alpha inline.
func (s SlotType) MaskOSType() string { return slotTable[s].mask }

// Encoding returns the payload encoding used by the slot.
func (s SlotType) Encoding() Encoding { return slotTable[s].encoding }

func (s SlotType) String() string {
	if !s.valid() {
		return fmt.Sprintf("SlotType(%d)", int(s))
	}
	return fmt.Sprintf("%s (%s)", slotTable[s].name, slotTable[s].ostype)
}
