package icnspack

import (
	"context"
	"runtime"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"
)

// maxWorkers caps the number of images encoded concurrently.
const maxWorkers = 20

// Packer turns a list of candidate images into a finished icon container.
type Packer struct {
	// Workers is the number of images resampled and encoded in parallel.
	// Values outside of 1..20 fall back to the number of CPUs.
	Workers int
	// Filter is the resampling filter; the zero value selects Lanczos.
	Filter imaging.ResampleFilter
	// DeferResized lets every image which fits a slot as it is claim its
	// slot before any downsampled image does. Without it, slots go to
	// whichever candidate comes first in the input.
	DeferResized bool
}

// Result is the outcome of a successful Pack call.
type Result struct {
	// Data holds the serialized container.
	Data []byte
	// Slots lists the populated slots in container order.
	Slots []SlotType
	// Diagnostics lists the skipped images in placement order.
	Diagnostics []*Diagnostic
}

// Pack classifies every icon, resolves which candidate wins each slot and
// encodes the winners into a fresh family. Only the encoding runs
// concurrently, so the result only depends on the input order. Images
// which lose their slot are neither converted nor resampled.
func (p *Packer) Pack(ctx context.Context, icons []Icon) (*Result, error) {
	family := NewFamily()
	if p.Filter.Kernel != nil {
		family.Filter = p.Filter
	}

	cands := make([]*candidate, len(icons))
	for i, icon := range icons {
		cands[i] = classifyIcon(icon)
	}
	if p.DeferResized {
		cands = deferResized(cands)
	}

	res := &Result{}
	var winners []*candidate
	claimed := make(map[SlotType]bool)
	for _, c := range cands {
		switch {
		case c.diag != nil:
			res.Diagnostics = append(res.Diagnostics, c.diag)
		case claimed[c.class.Slot]:
			res.Diagnostics = append(res.Diagnostics, c.duplicate())
		default:
			claimed[c.class.Slot] = true
			winners = append(winners, c)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for _, c := range winners {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return family.encode(c)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, c := range winners {
		family.store(c)
	}

	res.Slots = family.Slots()
	data, err := family.Bytes()
	if err != nil {
		return res, err
	}
	res.Data = data
	return res, nil
}

func (p *Packer) workers() int {
	if p.Workers <= 0 || p.Workers > maxWorkers {
		return runtime.NumCPU()
	}
	return p.Workers
}

// deferResized moves the candidates which need downsampling behind all
// others, keeping the relative order within both groups.
func deferResized(cands []*candidate) []*candidate {
	res := make([]*candidate, 0, len(cands))
	var resized []*candidate
	for _, c := range cands {
		if c.class.Verdict == NeedsResize {
			resized = append(resized, c)
			continue
		}
		res = append(res, c)
	}
	return append(res, resized...)
}
