/*
Package icnspack packs a set of raster images of arbitrary sizes into a single
multi-resolution icon container (.icns), as needed for an application bundle.

Every image is classified against a fixed table of icon slots by its square
side length and its display density. Images which fit a slot are used as they
are; oversized ones are downsampled with a Lanczos filter to the nearest power
of two below their size, never enlarged. The first image placed into a slot
wins, so the order of the input decides between competing candidates.

The package provides a command line interface too. To check the supported
flags type:

	$ icnspack --help

In case you wish to integrate the API in a self constructed environment here
is a simple example:

	package main

	import (
		"context"
		"fmt"
		"image"
		_ "image/png"
		"os"

		"github.com/esimov/icnspack"
	)

	func main() {
		f, err := os.Open("icon_1024.png")
		if err != nil {
			fmt.Printf("Error opening the source image: %s", err.Error())
			return
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			fmt.Printf("Error decoding the source image: %s", err.Error())
			return
		}
		icons := []icnspack.Icon{
			{Name: "icon_1024.png", Image: img, Density: icnspack.Retina},
			{Name: "icon_1024.png", Image: img, Density: icnspack.Standard},
		}

		p := &icnspack.Packer{}

		res, err := p.Pack(context.Background(), icons)
		if err != nil {
			fmt.Printf("Error packing the icons: %s", err.Error())
			return
		}
		for _, d := range res.Diagnostics {
			fmt.Println("skipped:", d)
		}
		os.WriteFile("App.icns", res.Data, 0644)
	}
*/
package icnspack
