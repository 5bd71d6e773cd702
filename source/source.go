// Package source locates icon source files, infers their display density
// from the file naming convention and decodes them into images.
package source

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/esimov/icnspack/utils"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// retinaSuffix marks a source file as a double density asset, as in icon@2x.png.
const retinaSuffix = "@2x"

// DecodeError is returned for sources which are not decodable images.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsRetina reports whether the file stem ends with "@2x".
func IsRetina(path string) bool {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.HasSuffix(stem, retinaSuffix)
}

// Density returns the display scale factor of a source file: 2 for retina
// assets and 1 for everything else.
func Density(path string) uint8 {
	if IsRetina(path) {
		return 2
	}
	return 1
}

// ValidExtensions lists the image file types picked up from directories.
var ValidExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp", ".icns"}

// IsCatalog reports whether path is an icon design directory (.icon)
// or a compiled asset catalog (.car) rather than a flat image.
func IsCatalog(path string) bool {
	ext := Ext(path)
	return ext == ".icon" || ext == ".car"
}

// Ext returns the lower case extension of path, remote sources included.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Decode reads an image from a local file or, for http(s) URLs, from a
// downloaded temporary copy.
func Decode(path string) (image.Image, error) {
	var (
		file *os.File
		err  error
	)
	if utils.IsValidUrl(path) {
		file, err = utils.DownloadImage(path)
		if err != nil {
			return nil, err
		}
		defer os.Remove(file.Name())
	} else {
		file, err = os.Open(path)
		if err != nil {
			return nil, err
		}
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// Glob expands the given patterns in order. Matches of a single pattern
// are sorted, a path matched by several patterns is kept at its first
// position, and URLs are passed through untouched. Directories other than
// .icon bundles are walked recursively for files with a valid extension.
// Patterns without any glob meta character are kept even if the file
// does not exist, so the error surfaces when the file is opened.
func Glob(patterns []string) ([]string, error) {
	var (
		res  []string
		seen = make(map[string]bool)
	)
	add := func(p string) error {
		fi, err := os.Stat(p)
		if err == nil && fi.IsDir() && !IsCatalog(p) {
			files, err := walkDir(p, ValidExtensions)
			if err != nil {
				return err
			}
			for _, f := range files {
				if !seen[f] {
					seen[f] = true
					res = append(res, f)
				}
			}
			return nil
		}
		if !seen[p] {
			seen[p] = true
			res = append(res, p)
		}
		return nil
	}

	for _, pattern := range patterns {
		if utils.IsValidUrl(pattern) || !strings.ContainsAny(pattern, "*?[") {
			if err := add(pattern); err != nil {
				return nil, err
			}
			continue
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid icon pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if err := add(m); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

// walkDir walks the directory tree under src and returns the regular files
// with one of the given extensions in lexical order. Icon design
// directories found on the way are returned as a whole.
func walkDir(src string, exts []string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != src && Ext(path) == ".icon" {
				paths = append(paths, path)
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if isValidExtension(Ext(path), exts) || Ext(path) == ".car" {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	for _, ex := range extensions {
		if ex == ext {
			return true
		}
	}
	return false
}
