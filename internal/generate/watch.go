// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long Watch waits for more changes before rerunning.
const DefaultDebounce = 200 * time.Millisecond

// Watch runs req, then reruns it whenever a local document it loaded
// changes, until ctx is done. fn receives the outcome of every run. Only
// local documents are watched; remote ones are fetched again on each run.
func (r *Runner) Watch(ctx context.Context, req Request, fn func(*Summary, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close() //nolint:errcheck

	dirs := make(map[string]bool)
	for {
		sum, sources, err := r.run(ctx, req)
		fn(sum, err)

		files := r.watchedFiles(req.Source, sources)
		for _, f := range files {
			dir := filepath.Dir(f)
			if dirs[dir] {
				continue
			}
			// Editors often replace files, so the directory is watched.
			if err := w.Add(dir); err != nil {
				r.logger.Warn("failed to watch directory", zap.String("dir", dir), zap.Error(err))
				continue
			}
			dirs[dir] = true
		}
		r.logger.Debug("watching sources", zap.Strings("files", files))

		if !waitForChange(ctx, w, files, r.logger) {
			return nil
		}
		r.logger.Info("source changed, regenerating")
	}
}

// watchedFiles maps the loader's local document paths to OS paths.
func (r *Runner) watchedFiles(source string, sources []string) []string {
	doc, _, _ := strings.Cut(source, "#")
	all := append([]string{path.Clean(strings.TrimPrefix(doc, "./"))}, sources...)

	seen := make(map[string]bool)
	var out []string
	for _, s := range all {
		if s == "" || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
			continue
		}
		f, err := filepath.Abs(filepath.Join(r.root, filepath.FromSlash(s)))
		if err != nil || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// waitForChange blocks until one of files changes and no further change
// arrives for DefaultDebounce. It returns false when ctx ends first.
func waitForChange(ctx context.Context, w *fsnotify.Watcher, files []string, logger *zap.Logger) bool {
	watched := make(map[string]bool, len(files))
	for _, f := range files {
		watched[f] = true
	}

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-w.Events:
			if !ok {
				return false
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || !watched[name] {
				continue
			}
			logger.Debug("source event", zap.String("file", name), zap.String("op", ev.Op.String()))
			timer = time.After(DefaultDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return false
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-timer:
			return true
		}
	}
}
