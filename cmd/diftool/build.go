package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/difbuilder/internal/config"
	"github.com/Faultbox/difbuilder/internal/logger"
	"github.com/Faultbox/difbuilder/internal/scene"
	"github.com/Faultbox/difbuilder/pkg/builder"
	"github.com/Faultbox/difbuilder/pkg/dif"
	"github.com/Faultbox/difbuilder/pkg/objimport"
)

func cmdBuild(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	flags := config.RegisterFlags(fs)
	scenePath := fs.String("scene", "", "Scene manifest (.yaml or .toml)")
	preview := fs.String("preview", "", "PNG thumbnail to embed")
	output := fs.String("o", "", "Output path")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return err
	}
	if *preview != "" {
		cfg.Output.Preview = *preview
	}

	var sc *scene.Scene
	if *scenePath != "" {
		if sc, err = scene.Load(*scenePath); err != nil {
			return err
		}
	}

	meshPath := fs.Arg(0)
	if meshPath == "" && sc != nil {
		meshPath = sc.MeshPath(sc.Interior)
	}
	if meshPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: diftool build [options] <mesh.obj>")
		return errUsage
	}
	if *output == "" {
		*output = strings.TrimSuffix(meshPath, filepath.Ext(meshPath)) + ".dif"
	}
	if !cfg.Output.Overwrite {
		if _, err := os.Stat(*output); err == nil {
			return fmt.Errorf("%s exists and overwrite is disabled", *output)
		}
	}

	build := func(path string) (*dif.Interior, error) {
		return buildInterior(path, cfg)
	}
	primary, err := build(meshPath)
	if err != nil {
		return err
	}

	d := dif.New(primary)
	if sc != nil {
		if err := sc.Apply(d, build); err != nil {
			return err
		}
	}
	if cfg.Output.Preview != "" {
		png, err := os.ReadFile(cfg.Output.Preview)
		if err != nil {
			return fmt.Errorf("reading preview: %w", err)
		}
		d.Preview = png
	}

	if err := dif.WriteFile(*output, d, cfg.Build.Version); err != nil {
		return err
	}
	logger.Info("wrote interior",
		zap.String("path", *output),
		zap.String("version", cfg.Build.Version),
		zap.Int("sub_objects", len(d.SubObjects)),
		zap.Int("triggers", len(d.Triggers)),
		zap.Int("entities", len(d.GameEntities)),
	)
	fmt.Fprintf(out, "Wrote %s (%s)\n", *output, cfg.Build.Version)
	return nil
}

// buildInterior compiles one OBJ mesh with the configured builder options.
func buildInterior(path string, cfg *config.Config) (*dif.Interior, error) {
	mesh, err := objimport.Load(path)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.BuilderOptions()
	if err != nil {
		return nil, err
	}
	log := logger.Log.With(zap.String("mesh", filepath.Base(path)))
	lastStatus := ""
	opts = append(opts,
		builder.WithLogger(log),
		builder.WithProgress(func(current, total int, status string) {
			if status != lastStatus {
				lastStatus = status
				log.Debug(status, zap.Int("total", total))
			}
		}),
	)

	b := builder.New(opts...)
	if err := mesh.AddTo(b); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	start := time.Now()
	in, report, err := b.BuildWithReport()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Info("built interior",
		zap.Int("triangles", b.Len()),
		zap.Int("surfaces", len(in.Surfaces)),
		zap.Int("hulls", len(in.ConvexHulls)),
		zap.Int("dropped", report.Dropped),
		zap.Float32("hit_area_pct", report.HitAreaPercentage),
		zap.Duration("elapsed", time.Since(start)),
	)
	return in, nil
}
