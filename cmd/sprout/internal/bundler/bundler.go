// Package bundler produces the single self-contained bundle the dev server
// pushes to connected runtimes, rebuilding it whenever the sources change.
package bundler

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce collapses editor save bursts into a single rebuild.
const debounce = 100 * time.Millisecond

// Bundler watches an entry point and emits a rebuilt bundle on every
// change. When Build is set it is run through the shell and its stdout is
// the bundle; otherwise the entry file's contents are pushed verbatim.
type Bundler struct {
	Entry string
	Build string
	Log   *zap.Logger
}

// Start performs an initial build, then watches the entry point's
// directory tree and rebuilds on changes. Each successful build is sent on
// the returned channel; a consumer that lags only ever sees the newest
// build. Start fails if the entry point does not exist or the first build
// fails.
func (b *Bundler) Start(ctx context.Context) (<-chan string, error) {
	info, err := os.Stat(b.Entry)
	if err != nil {
		return nil, fmt.Errorf("entry point %s: %w", b.Entry, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("entry point %s is a directory", b.Entry)
	}

	first, err := b.build(ctx)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	root := filepath.Dir(b.Entry)
	if err := watchTree(watcher, root); err != nil {
		watcher.Close()
		return nil, err
	}

	builds := make(chan string, 1)
	builds <- first

	go b.run(ctx, watcher, builds)
	return builds, nil
}

func (b *Bundler) run(ctx context.Context, watcher *fsnotify.Watcher, builds chan string) {
	defer watcher.Close()
	defer close(builds)

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove) {
				continue
			}
			// Newly created directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						b.Log.Warn("failed to watch new directory",
							zap.String("dir", event.Name),
							zap.Error(err))
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			pending = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			b.Log.Warn("watch error", zap.Error(err))

		case <-pending:
			pending = nil
			bundle, err := b.build(ctx)
			if err != nil {
				b.Log.Error("rebuild failed", zap.Error(err))
				continue
			}
			// Only the newest build matters; drop an unconsumed one.
			select {
			case <-builds:
			default:
			}
			select {
			case builds <- bundle:
			default:
			}
		}
	}
}

func (b *Bundler) build(ctx context.Context) (string, error) {
	started := time.Now()

	var bundle string
	if b.Build != "" {
		cmd := exec.CommandContext(ctx, "sh", "-c", b.Build)
		cmd.Stderr = os.Stderr
		out, err := cmd.Output()
		if err != nil {
			return "", fmt.Errorf("build command: %w", err)
		}
		bundle = string(out)
	} else {
		data, err := os.ReadFile(b.Entry)
		if err != nil {
			return "", fmt.Errorf("read entry point: %w", err)
		}
		bundle = string(data)
	}

	b.Log.Info("bundle built",
		zap.String("entry", b.Entry),
		zap.Int("bytes", len(bundle)),
		zap.Duration("elapsed", time.Since(started)))
	return bundle, nil
}

// watchTree adds dir and every directory below it to the watcher.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
