package icnspack

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/esimov/icnspack/source"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Bundler produces an icon artifact inside outDir and returns its path.
// FlatBundler packs plain images; the catalog package provides a bundler
// backed by the external asset catalog compiler.
type Bundler interface {
	Bundle(ctx context.Context, outDir string) (string, error)
}

// FlatBundler packs a list of flat image files into a single container.
// Sources are decoded concurrently but keep their order for slot selection.
type FlatBundler struct {
	// ProductName names the output file: <ProductName>.icns.
	ProductName string
	// Paths lists the icon sources in priority order.
	Paths  []string
	Packer *Packer

	// Diagnostics holds the images skipped by the last Bundle call.
	Diagnostics []*Diagnostic
}

var _ Bundler = (*FlatBundler)(nil)

// Pack decodes the sources and packs them. A ready made container among
// the sources is returned as it is; compiled asset catalogs and icon
// design directories are ignored.
func (b *FlatBundler) Pack(ctx context.Context) (*Result, error) {
	b.Diagnostics = nil
	if len(b.Paths) == 0 {
		return nil, ErrNoIcons
	}

	for _, path := range b.Paths {
		if source.Ext(path) == ".icns" {
			return readContainerFile(path)
		}
	}

	var paths []string
	for _, path := range b.Paths {
		if !source.IsCatalog(path) {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return nil, ErrNoIcons
	}

	packer := b.Packer
	if packer == nil {
		packer = &Packer{}
	}

	icons := make([]Icon, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(packer.workers())
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := source.Decode(path)
			if err != nil {
				return err
			}
			icons[i] = Icon{
				Name:    path,
				Image:   img,
				Density: Density(source.Density(path)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res, err := packer.Pack(ctx, icons)
	if res != nil {
		b.Diagnostics = res.Diagnostics
	}
	return res, err
}

// Bundle packs the sources and writes the container into outDir, as
// <ProductName>.icns or, for a ready made container, under its own name.
func (b *FlatBundler) Bundle(ctx context.Context, outDir string) (string, error) {
	res, err := b.Pack(ctx)
	if err != nil {
		return "", err
	}

	name := b.ProductName
	if name == "" {
		name = "icon"
	}
	name += ".icns"
	for _, path := range b.Paths {
		if source.Ext(path) == ".icns" {
			name = filepath.Base(path)
			break
		}
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", errors.Wrap(err, "creating output directory")
	}
	dest := filepath.Join(outDir, name)
	if err := os.WriteFile(dest, res.Data, 0644); err != nil {
		return "", errors.Wrap(err, "writing icon container")
	}
	return dest, nil
}

// readContainerFile validates an existing container file and returns it
// as the packing result.
func readContainerFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ReadContainer(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WithMessagef(err, "%s", path)
	}
	return &Result{Data: data, Slots: c.Slots()}, nil
}
