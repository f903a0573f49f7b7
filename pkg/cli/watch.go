package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events editors emit for one save.
const watchDebounce = 100 * time.Millisecond

// watch renders path once and again after every change to it, until ctx
// is cancelled. The parent directory is watched so that editors which
// replace the file on save keep triggering renders.
func (r *renderer) watch(ctx context.Context, path, out string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	r.app.log.Info("watching template", "path", path)

	r.watchRender(ctx, path, out)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			r.app.log.Info("stopped watching", "path", path)
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			r.app.log.Debug("template changed", "path", path, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			r.watchRender(ctx, path, out)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.app.log.Warn("watcher error", "error", err)
		}
	}
}
