package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dwestra/quill/pkg/pipeline"
)

// watchDebounce coalesces rapid editor write events into a single rerun.
const watchDebounce = 250 * time.Millisecond

// runWatch converts source once, then re-runs the conversion whenever the
// source file changes. It blocks until ctx is cancelled. Conversion errors
// are reported but do not stop the watch, so broken edits can be fixed
// without restarting.
func (c *CLI) runWatch(ctx context.Context, source string, opts pipeline.Options, flags *convertFlags) error {
	if source == "-" || source == "" || looksLikeURL(source) {
		return fmt.Errorf("watch requires a file source")
	}

	target, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", source, err)
	}

	if err := c.runConvert(ctx, source, opts, flags); err != nil {
		printWarning("%v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors often replace the file on
	// save, which would drop a watch on the old inode.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	printInfo("Watching %s for changes (ctrl-c to stop)", source)

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !sameFile(event.Name, target) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning("watch error: %v", err)

		case <-timer.C:
			prog := newProgress(c.Logger)
			if err := c.runConvert(ctx, source, opts, flags); err != nil {
				printWarning("%v", err)
				continue
			}
			prog.done(fmt.Sprintf("Rebuilt %s", source))
		}
	}
}

// sameFile reports whether an event path refers to the watched target.
func sameFile(eventName, target string) bool {
	abs, err := filepath.Abs(eventName)
	if err != nil {
		return false
	}
	return abs == target
}
