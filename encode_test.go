package icnspack

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackBits(t *testing.T) {
	testCases := []struct {
		name string
		src  []byte
		want []byte
	}{
		{"empty", nil, nil},
		{"single", []byte{5}, []byte{0, 5}},
		{"literal", []byte{1, 2}, []byte{1, 1, 2}},
		{"short run", []byte{1, 1, 1}, []byte{0x80, 1}},
		{"run then literal", []byte{7, 7, 7, 7, 1, 2}, []byte{0x81, 7, 1, 1, 2}},
		{"literal then run", []byte{1, 2, 9, 9, 9}, []byte{1, 1, 2, 0x80, 9}},
		{"two equal bytes stay literal", []byte{4, 4, 5}, []byte{2, 4, 4, 5}},
		{"longest run", bytes.Repeat([]byte{3}, 131), []byte{0xff, 3, 0, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := packBits(nil, tc.src)
			assert.Equal(t, tc.want, got)

			back, rest, err := unpackBits(got, len(tc.src))
			require.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, len(tc.src), len(back))
			assert.True(t, bytes.Equal(tc.src, back))
		})
	}
}

func TestPackBits_LongLiteral(t *testing.T) {
	src := make([]byte, 300)
	for i := range src {
		src[i] = byte(i)
	}
	got := packBits(nil, src)

	// 300 distinct bytes split into literal chunks of 128, 128 and 44.
	assert.Equal(t, byte(127), got[0])
	assert.Equal(t, byte(127), got[129])
	assert.Equal(t, byte(43), got[258])
	assert.Len(t, got, 300+3)

	back, _, err := unpackBits(got, len(src))
	require.NoError(t, err)
	assert.Equal(t, src, back)
}

func TestUnpackBits_Truncated(t *testing.T) {
	_, _, err := unpackBits([]byte{5, 1, 2}, 6)
	assert.Error(t, err)
	_, _, err = unpackBits([]byte{0x82}, 5)
	assert.Error(t, err)
	_, _, err = unpackBits([]byte{0x82, 1}, 4)
	assert.Error(t, err)
}

func TestEncodeSlot_RLE24(t *testing.T) {
	img := solid(128, 128, 10, 20, 30, 200)
	p, err := FromImage(img)
	require.NoError(t, err)

	elems, err := encodeSlot(Icon128x128, p)
	require.NoError(t, err)
	require.Len(t, elems, 2)

	assert.Equal(t, "it32", elems[0].ostype)
	assert.Equal(t, []byte{0, 0, 0, 0}, elems[0].data[:4])
	assert.Equal(t, "t8mk", elems[1].ostype)
	assert.Len(t, elems[1].data, 128*128)
	assert.Equal(t, byte(200), elems[1].data[0])
}

func TestEncodeSlot_WrongSize(t *testing.T) {
	p, err := FromImage(solid(32, 32, 0, 0, 0, 255))
	require.NoError(t, err)

	_, err = encodeSlot(Icon16x16, p)
	assert.Error(t, err)
}
