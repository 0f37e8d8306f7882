package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/xpobj/internal/logger"
	"github.com/Faultbox/xpobj/pkg/xpobj"
)

// checkResult holds the outcome of parsing one file.
type checkResult struct {
	Path        string
	Diagnostics int
	Err         error
}

// checkFiles parses files concurrently, at most workers at a time. Results
// keep the order of files. Parse failures are reported per file and never
// cancel the others.
func checkFiles(ctx context.Context, files []string, opts xpobj.Options, workers int) []checkResult {
	results := make([]checkResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = checkResult{Path: path, Err: err}
				return nil
			}
			scene, err := xpobj.ParseFile(path, opts)
			res := checkResult{Path: path, Err: err}
			if scene != nil {
				res.Diagnostics = len(scene.Diagnostics)
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// writeResults prints one line per file and returns the number of failures.
func writeResults(w io.Writer, results []checkResult) int {
	var failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(w, "FAIL  %s: %v\n", r.Path, r.Err)
		case r.Diagnostics > 0:
			fmt.Fprintf(w, "WARN  %s (%d diagnostics)\n", r.Path, r.Diagnostics)
		default:
			fmt.Fprintf(w, "OK    %s\n", r.Path)
		}
	}
	return failed
}

func cmdCheck(args []string) {
	cfg, files := setup(args, "objtool check [-strict] [-workers n] <file.obj>...", 1)
	defer logger.Sync()

	start := time.Now()
	results := checkFiles(context.Background(), files, parseOptions(cfg), cfg.Parse.Workers)
	failed := writeResults(os.Stdout, results)

	logger.Log.Info("check finished",
		zap.Int("files", len(files)),
		zap.Int("failed", failed),
		zap.Int("workers", cfg.Parse.Workers),
		zap.Duration("elapsed", time.Since(start)))

	fmt.Printf("\n%d files, %d failed\n", len(files), failed)
	if failed > 0 {
		logger.Sync()
		os.Exit(1)
	}
}
