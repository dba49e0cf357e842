package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/difbuilder/internal/logger"
	"github.com/Faultbox/difbuilder/pkg/dif"
)

var errVerifyFailed = errors.New("verification failed")

type verifyResult struct {
	version dif.Version
	err     error
}

func cmdVerify(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	jobs := fs.Int("j", runtime.NumCPU(), "Files verified in parallel")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: diftool verify [-j N] <file.dif>...")
		return errUsage
	}

	files := fs.Args()
	results, err := verifyFiles(context.Background(), files, *jobs)
	if err != nil {
		return err
	}

	failed := 0
	for i, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", files[i], r.err)
			continue
		}
		fmt.Fprintf(out, "OK   %s (%s)\n", files[i], r.version.Tag)
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files", errVerifyFailed, failed, len(files))
	}
	return nil
}

// verifyFiles checks every file with at most jobs running at once. A failing
// file is reported in its result and does not stop the others; only a
// cancelled ctx ends the run early, and that error is returned.
func verifyFiles(ctx context.Context, files []string, jobs int) ([]verifyResult, error) {
	results := make([]verifyResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].err = err
				return err
			}
			results[i].version, results[i].err = verifyFile(path)
			if results[i].err != nil {
				logger.Debug("verify failed", zap.String("path", path), zap.Error(results[i].err))
			}
			return nil
		})
	}
	return results, g.Wait()
}

// verifyFile reads path and checks that writing it back with the detected
// version reproduces the same bytes.
func verifyFile(path string) (dif.Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dif.Version{}, err
	}
	d, v, err := dif.Read(data)
	if err != nil {
		return dif.Version{}, err
	}
	again, err := dif.Write(d, v.Tag)
	if err != nil {
		return v, fmt.Errorf("re-encoding as %s: %w", v.Tag, err)
	}
	if !bytes.Equal(data, again) {
		return v, fmt.Errorf("re-encoded %d bytes differ from the %d on disk at offset %d",
			len(again), len(data), firstDiff(data, again))
	}
	return v, nil
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}
