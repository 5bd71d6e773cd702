package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/esimov/icnspack"
	"github.com/esimov/icnspack/source"
	"github.com/esimov/icnspack/utils"
	"github.com/fsnotify/fsnotify"
)

// debounceDelay is the quiet period awaited before repacking.
const debounceDelay = 500 * time.Millisecond

// watchSources packs once, then repacks every time one of the source
// directories changes, until ctx is cancelled.
func watchSources(ctx context.Context, op *icnspack.Ops) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	paths, err := source.Glob(op.Cfg.Icons)
	if err != nil {
		return err
	}
	for _, dir := range watchDirs(paths) {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch folder %s: %w", dir, err)
		}
		log.Printf("Watching folder: %s", dir)
	}

	var mu sync.Mutex
	repack := func() {
		mu.Lock()
		defer mu.Unlock()
		if _, err := op.Execute(ctx); err != nil {
			printError(err)
		}
	}
	repack()

	var timer *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, repack)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Print(utils.DecorateText(fmt.Sprintf("Watcher error: %v", err), utils.ErrorMessage))
		}
	}
}

// watchDirs returns the distinct local directories holding the sources.
func watchDirs(paths []string) []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, p := range paths {
		if utils.IsValidUrl(p) {
			continue
		}
		dir := filepath.Dir(p)
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			dir = p
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// relevant filters out editor temp files, pure attribute changes and the
// artifacts written by the packer itself.
func relevant(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if base == "" || base[0] == '.' {
		return false
	}
	if ext := source.Ext(base); ext == ".icns" || ext == ".car" {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
