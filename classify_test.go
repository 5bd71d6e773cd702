package icnspack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		side    int
		density Density
		want    Classification
	}{
		{16, Standard, Classification{Verdict: Direct, Slot: Icon16x16}},
		{17, Standard, Classification{Verdict: NeedsResize, Slot: Icon16x16, Target: 16}},
		{17, Retina, Classification{Verdict: Unusable, Slot: -1}},
		{48, Standard, Classification{Verdict: Direct, Slot: Icon48x48}},
		{48, Retina, Classification{Verdict: NeedsResize, Slot: Icon16x16Retina, Target: 32}},
		{100, Standard, Classification{Verdict: NeedsResize, Slot: Icon64x64, Target: 64}},
		{128, Retina, Classification{Verdict: Unusable, Slot: -1}},
		{600, Standard, Classification{Verdict: NeedsResize, Slot: Icon512x512, Target: 512}},
		{1024, Standard, Classification{Verdict: Unusable, Slot: -1}},
		{1024, Retina, Classification{Verdict: Direct, Slot: Icon512x512Retina}},
		{1500, Retina, Classification{Verdict: NeedsResize, Slot: Icon512x512Retina, Target: 1024}},
		{2000, Standard, Classification{Verdict: Unusable, Slot: -1}},
		{8, Standard, Classification{Verdict: Unusable, Slot: -1}},
		{0, Standard, Classification{Verdict: Unusable, Slot: -1}},
		{-3, Retina, Classification{Verdict: Unusable, Slot: -1}},
		{32, 0, Classification{Verdict: Direct, Slot: Icon32x32}},
		{17, 0, Classification{Verdict: NeedsResize, Slot: Icon16x16, Target: 16}},
	}

	for _, tc := range testCases {
		got := Classify(tc.side, tc.density)
		assert.Equal(t, tc.want, got, "Classify(%d, %v)", tc.side, tc.density)
	}
}

func TestClassify_NeverRoundsUp(t *testing.T) {
	for _, d := range []Density{Standard, Retina} {
		for side := 1; side <= 4096; side++ {
			c := Classify(side, d)
			switch c.Verdict {
			case Direct:
				assert.Equal(t, side, c.Slot.PixelSize())
				assert.Equal(t, d, c.Slot.Density())
			case NeedsResize:
				assert.Equal(t, FloorPow2(side), c.Target)
				assert.Less(t, c.Target, side)
				assert.Equal(t, c.Target, c.Slot.PixelSize())
				assert.Equal(t, d, c.Slot.Density())
			}
			assert.Equal(t, c, Classify(side, d), "classification must be stable")
		}
	}
}

func TestFloorPow2(t *testing.T) {
	assert.Equal(t, 0, FloorPow2(0))
	assert.Equal(t, 0, FloorPow2(-8))

	for s := 1; s <= 1<<16; s++ {
		p := FloorPow2(s)
		if p > s || 2*p <= s || p&(p-1) != 0 {
			t.Fatalf("FloorPow2(%d) = %d", s, p)
		}
		if s&(s-1) == 0 && p != s {
			t.Fatalf("FloorPow2(%d) = %d, want the value itself", s, p)
		}
	}
}

func TestSlotTable(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Slots() {
		assert.Len(t, s.OSType(), 4)
		assert.False(t, seen[s.OSType()], "duplicate tag %s", s.OSType())
		seen[s.OSType()] = true

		got, ok := SlotFor(s.PixelSize(), s.Density())
		assert.True(t, ok)
		assert.Equal(t, s, got)

		if s.Encoding() == EncodingRLE24 {
			assert.Len(t, s.MaskOSType(), 4)
			assert.Equal(t, Standard, s.Density())
		} else {
			assert.Empty(t, s.MaskOSType())
		}
	}
	_, ok := SlotFor(1024, Standard)
	assert.False(t, ok)
	_, ok = SlotFor(16, Retina)
	assert.False(t, ok)
}
