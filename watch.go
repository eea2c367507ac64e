package iconconv

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/k1LoW/errors"
	"golang.org/x/sync/errgroup"
)

// Source edits usually arrive as a burst of writes from the image
// editor, so reconversion is debounced.
const debounceInterval = 250 * time.Millisecond

// Watch reconverts icons as their sources change. It blocks until ctx
// is cancelled.
func (c *Converter) Watch(ctx context.Context) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(c.srcDir); err != nil {
		return err
	}
	c.logger.Info("watching for changes", slog.String("dir", c.srcDir))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		timer := time.NewTimer(debounceInterval)
		if !timer.Stop() {
			<-timer.C
		}
		dirty := map[string]struct{}{}
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
					continue
				}
				name, ok := c.iconFor(ev.Name)
				if !ok {
					continue
				}
				dirty[name] = struct{}{}
				timer.Reset(debounceInterval)
			case <-timer.C:
				// Convert in configured order, not event order.
				for _, name := range c.icons {
					if _, ok := dirty[name]; !ok {
						continue
					}
					delete(dirty, name)
					if _, err := c.Convert(ctx, name); err != nil {
						return err
					}
				}
				c.logger.Info("watching for changes", slog.String("dir", c.srcDir))
			}
		}
	})
	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if werr != nil {
					return werr
				}
			}
		}
	})
	// Cancellation is the normal way to stop watching, not a failure.
	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// iconFor maps a changed path to a configured icon name.
func (c *Converter) iconFor(path string) (string, bool) {
	name, ok := strings.CutSuffix(filepath.Base(path), ".png")
	if !ok {
		return "", false
	}
	if !slices.Contains(c.icons, name) {
		return "", false
	}
	return name, true
}
