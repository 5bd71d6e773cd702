package icnspack

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/esimov/icnspack/catalog"
	"github.com/esimov/icnspack/config"
	"github.com/esimov/icnspack/source"
	"github.com/esimov/icnspack/utils"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

var _ Bundler = (*catalog.Compiler)(nil)

// Ops holds the options of a single command line run.
type Ops struct {
	Cfg *config.Config
	// Dst overrides the output directory; PipeName writes the flat
	// container to Stdout instead.
	Dst, PipeName string
	// CatalogOnly skips the flat image path entirely.
	CatalogOnly bool
	// NoSpinner disables the progress indicator.
	NoSpinner bool

	Stdout io.Writer
	Stderr io.Writer
}

// Artifacts lists the files produced by Execute.
type Artifacts struct {
	Icns        string
	AssetsCar   string
	IconName    string
	Diagnostics []*Diagnostic
	Warnings    []error
}

func (op *Ops) stdout() io.Writer {
	if op.Stdout != nil {
		return op.Stdout
	}
	return os.Stdout
}

func (op *Ops) stderr() io.Writer {
	if op.Stderr != nil {
		return op.Stderr
	}
	return os.Stderr
}

// Execute runs the flat image packer and the asset catalog compiler over
// the configured icon sources. Catalog failures are only warnings while
// the flat path is available, unless the configuration marks the catalog
// as the exclusive path.
func (op *Ops) Execute(ctx context.Context) (*Artifacts, error) {
	cfg := op.Cfg
	if cfg == nil {
		cfg = config.Default()
	}
	outDir := cfg.OutDir
	if op.Dst != "" && op.Dst != op.PipeName {
		outDir = op.Dst
	}
	toPipe := op.PipeName != "" && op.Dst == op.PipeName

	paths, err := source.Glob(cfg.Icons)
	if err != nil {
		return nil, err
	}
	var flat, cat []string
	for _, p := range paths {
		if source.IsCatalog(p) {
			cat = append(cat, p)
		} else {
			flat = append(flat, p)
		}
	}
	if len(flat) == 0 && len(cat) == 0 {
		return nil, ErrNoIcons
	}
	if op.CatalogOnly && len(cat) == 0 {
		return nil, catalog.ErrNoCatalog
	}

	now := time.Now()
	art := &Artifacts{}

	if len(flat) > 0 && !op.CatalogOnly {
		b := &FlatBundler{
			ProductName: cfg.ProductName,
			Paths:       flat,
			Packer: &Packer{
				Workers:      cfg.Workers,
				DeferResized: cfg.DeferResized,
			},
		}
		err := op.withSpinner("packing icon family", func() error {
			if toPipe {
				if f, ok := op.stdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
					return errors.New("`-` should be used with a pipe for stdout")
				}
				res, err := b.Pack(ctx)
				if err != nil {
					return err
				}
				_, err = op.stdout().Write(res.Data)
				return err
			}
			dest, err := b.Bundle(ctx, outDir)
			art.Icns = dest
			return err
		})
		art.Diagnostics = b.Diagnostics
		for _, d := range b.Diagnostics {
			log.Print(utils.DecorateText("skipped "+d.Error(), utils.WarningMessage))
		}
		if err != nil {
			return art, err
		}
		if art.Icns != "" {
			op.printStatus(art.Icns)
		}
	}

	if len(cat) > 0 {
		exclusive := cfg.Catalog.Exclusive || op.CatalogOnly || len(flat) == 0
		c := &catalog.Compiler{
			Paths:      cat,
			Actool:     cfg.Catalog.Actool,
			Assetutil:  cfg.Catalog.Assetutil,
			MinVersion: cfg.Catalog.MinVersion,
		}
		var car string
		err := op.withSpinner("compiling asset catalog", func() error {
			var err error
			car, err = c.Bundle(ctx, outDir)
			return err
		})
		switch {
		case err != nil && exclusive:
			return art, err
		case err != nil:
			art.Warnings = append(art.Warnings, err)
			log.Print(utils.DecorateText(fmt.Sprintf("skipping %s creation: %v", catalog.ArtifactName, err), utils.WarningMessage))
		default:
			art.AssetsCar = car
			op.printStatus(car)
			if name, err := c.AppIconName(ctx, car); err != nil {
				art.Warnings = append(art.Warnings, err)
				log.Print(utils.DecorateText(err.Error(), utils.WarningMessage))
			} else {
				art.IconName = name
			}
		}
	}

	fmt.Fprintf(op.stderr(), "\nExecution time: %s\n", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	return art, nil
}

// withSpinner runs fn while the progress indicator is shown.
func (op *Ops) withSpinner(msg string, fn func() error) error {
	if op.NoSpinner {
		return fn()
	}
	s := utils.NewSpinner(op.stderr(), fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ ICNSPACK", utils.StatusMessage),
		utils.DecorateText("⇢ "+msg+"...", utils.DefaultMessage),
	), time.Millisecond*80, true)
	s.Start()

	err := fn()
	if err != nil {
		s.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("⚡ ICNSPACK", utils.StatusMessage),
			utils.DecorateText(msg+" failed...", utils.DefaultMessage),
			utils.DecorateText("✘", utils.ErrorMessage),
		)
	} else {
		s.StopMsg = fmt.Sprintf("%s %s %s\n",
			utils.DecorateText("⚡ ICNSPACK", utils.StatusMessage),
			utils.DecorateText("⇢", utils.DefaultMessage),
			utils.DecorateText(msg+" done ✔", utils.SuccessMessage),
		)
	}
	s.Stop()
	return err
}

// printStatus displays the location of a generated artifact.
func (op *Ops) printStatus(fname string) {
	fmt.Fprintf(op.stderr(), "The icon has been saved as: %s %s\n",
		utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
		utils.DefaultColor,
	)
}
