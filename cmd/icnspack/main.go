package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/esimov/icnspack"
	"github.com/esimov/icnspack/config"
	"github.com/esimov/icnspack/utils"
)

const helpBanner = `
┬┌─┐┌┐┌┌─┐┌─┐┌─┐┌─┐┬┌─
││  │││└─┐├─┘├─┤│  ├┴┐
┴└─┘┘└┘└─┘┴  ┴ ┴└─┘┴ ┴

Multi-resolution icon container packer.
    Version: %s

Usage: icnspack [flags] [icon files, directories, globs or URLs...]

`

// pipeName is the file name that indicates stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

var (
	// Flags
	configFile  = flag.String("config", "", "YAML bundle configuration")
	destination = flag.String("out", "", "Output directory, or - to write the icon container to stdout")
	productName = flag.String("name", "", "Product name used for the <name>.icns file")
	workers     = flag.Int("conc", 0, "Number of images to decode and resample concurrently")
	deferResize = flag.Bool("defer", false, "Let exact size images claim their slots before downsampled ones")
	catalogOnly = flag.Bool("catalog-only", false, "Only compile the asset catalog")
	list        = flag.String("list", "", "List the slots of an existing icon container")
	watch       = flag.Bool("watch", false, "Repack whenever a source file changes")
)

func main() {
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list != "" {
		if err := listContainer(os.Stdout, *list); err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}
	applyFlags(cfg)

	if len(cfg.Icons) == 0 {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide at least one icon source!", utils.ErrorMessage))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	op := &icnspack.Ops{
		Cfg:         cfg,
		Dst:         *destination,
		PipeName:    pipeName,
		CatalogOnly: *catalogOnly,
		NoSpinner:   *destination == pipeName,
	}

	if *watch {
		if err := watchSources(ctx, op); err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		return
	}

	if _, err := op.Execute(ctx); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// applyFlags lets explicitly set flags override the file and environment configuration.
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			cfg.ProductName = *productName
		case "conc":
			cfg.Workers = *workers
		case "defer":
			cfg.DeferResized = *deferResize
		}
	})
	if flag.NArg() > 0 {
		cfg.Icons = flag.Args()
	}
}

// printError displays the reason of a failed run.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "%s%s\n",
		utils.DecorateText("\nError creating the icon: ", utils.ErrorMessage),
		utils.DecorateText(fmt.Sprintf("\n\tReason: %v", err), utils.DefaultMessage),
	)
}
