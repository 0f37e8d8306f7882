package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/xpobj/internal/config"
	"github.com/Faultbox/xpobj/internal/export"
	"github.com/Faultbox/xpobj/internal/logger"
	"github.com/Faultbox/xpobj/pkg/xpobj"
)

// settle absorbs the burst of events editors produce for a single save.
const settle = 150 * time.Millisecond

func cmdWatch(args []string) {
	cfg, files := setup(args, "objtool watch <file.obj>", 1)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watchFile(ctx, cfg, files[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// watchFile re-parses path after every change until ctx is done. The
// directory is watched rather than the file so that editors which replace
// the file on save are still followed.
func watchFile(ctx context.Context, cfg *config.Config, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	report(cfg, abs)
	loop := changeLoop{
		target:   abs,
		settle:   settle,
		events:   watcher.Events,
		errors:   watcher.Errors,
		onChange: func() { report(cfg, abs) },
		log:      logger.Named("watch"),
	}
	return loop.run(ctx)
}

// changeLoop turns filesystem events for one file into debounced change
// callbacks.
type changeLoop struct {
	target   string // cleaned absolute path
	settle   time.Duration
	events   <-chan fsnotify.Event
	errors   <-chan error
	onChange func()
	log      *zap.Logger
}

// run calls onChange once per burst of events on target, after settle has
// passed without another one. It returns when ctx is done or the event
// channels close.
func (l changeLoop) run(ctx context.Context) error {
	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-l.events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != l.target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				l.log.Debug("change", zap.String("op", event.Op.String()))
				timer = time.After(l.settle)
			}
		case err, ok := <-l.errors:
			if !ok {
				return nil
			}
			l.log.Warn("watcher error", zap.Error(err))
		case <-timer:
			timer = nil
			l.onChange()
		}
	}
}

func report(cfg *config.Config, path string) {
	fmt.Printf("--- %s %s\n", time.Now().Format("15:04:05"), filepath.Base(path))
	scene, err := xpobj.ParseFile(path, parseOptions(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if scene == nil {
		return
	}
	if err := export.WriteSummary(os.Stdout, scene); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
