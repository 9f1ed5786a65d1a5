package guard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Pack is an operator-supplied pattern extension for one language. Packs
// add patterns on top of the built-in tables; they never remove them.
type Pack struct {
	// Language is the language table the pack extends ("en", "ko", ...).
	Language string `yaml:"language"`

	// Patterns maps attack categories to additional regular expressions.
	Patterns map[Category][]string `yaml:"patterns"`
}

// loadPacks reads every *.yaml/*.yml pack file from dir, sorted by name.
// A missing directory is not an error; packs are optional.
func loadPacks(dir string) ([]Pack, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pattern pack directory %q: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	var packs []Pack
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read pattern pack %q: %w", path, err)
		}
		var pack Pack
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("invalid pattern pack %q: %w", path, err)
		}
		if pack.Language == "" {
			return nil, fmt.Errorf("pattern pack %q has no language", path)
		}
		packs = append(packs, pack)
	}
	return packs, nil
}

// Watch reloads the pattern tables whenever a pack file in the configured
// directory changes. It blocks until ctx is cancelled and is a no-op when
// no pack directory is configured.
//
// A reload failure keeps the previous tables active.
func (g *Guard) Watch(ctx context.Context) error {
	if g.config.PackDir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create pack watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(g.config.PackDir); err != nil {
		return fmt.Errorf("failed to watch pack directory %q: %w", g.config.PackDir, err)
	}

	g.logger.Info("watching pattern pack directory", "dir", g.config.PackDir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			g.logger.Info("pattern pack changed, reloading",
				"path", event.Name,
				"op", event.Op.String(),
			)
			if err := g.reload(); err != nil {
				g.logger.Error("pattern pack reload failed, keeping previous tables",
					"error", err,
				)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Error("pack watcher error", "error", err)
		}
	}
}
