package source

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, side int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, side, side))))
	return buf.Bytes()
}

func touch(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestIsRetina(t *testing.T) {
	testCases := map[string]bool{
		"icon@2x.png":             true,
		"icons/32x32@2x.png":      true,
		"icons/icon@2x.final.png": false,
		"icon.png":                false,
		"icon@2.png":              false,
		"@2x":                     true,
		"icon@3x.png":             false,
	}
	for path, want := range testCases {
		assert.Equal(t, want, IsRetina(path), path)
	}
	assert.Equal(t, uint8(2), Density("a@2x.jpg"))
	assert.Equal(t, uint8(1), Density("a.jpg"))
}

func TestIsCatalog(t *testing.T) {
	assert.True(t, IsCatalog("AppIcon.icon"))
	assert.True(t, IsCatalog("build/Assets.CAR"))
	assert.False(t, IsCatalog("icon.png"))
	assert.False(t, IsCatalog("icon.icns"))
}

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.png", "sub/c@2x.png", "notes.txt", "x.car", "App.icon/icon.json"} {
		touch(t, filepath.Join(dir, name), nil)
	}

	paths, err := Glob([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "App.icon"),
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "sub", "c@2x.png"),
		filepath.Join(dir, "x.car"),
	}, paths)

	paths, err = Glob([]string{
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "*.png"),
		filepath.Join(dir, "missing.png"),
		"https://example.com/icon.png",
		filepath.Join(dir, "App.icon"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "missing.png"),
		"https://example.com/icon.png",
		filepath.Join(dir, "App.icon"),
	}, paths)

	_, err = Glob([]string{filepath.Join(dir, "[")})
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.png")
	touch(t, good, pngBytes(t, 16))
	img, err := Decode(good)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())

	bad := filepath.Join(dir, "bad.png")
	touch(t, bad, []byte("definitely not an image"))
	_, err = Decode(bad)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, bad, de.Path)
	assert.ErrorIs(t, err, image.ErrFormat)

	_, err = Decode(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode_Remote(t *testing.T) {
	data := pngBytes(t, 32)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/icon.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer ts.Close()

	img, err := Decode(ts.URL + "/icon.png")
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dy())

	_, err = Decode(ts.URL + "/other.png")
	assert.Error(t, err)
}
