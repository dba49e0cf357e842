package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/difbuilder/internal/logger"
	"github.com/Faultbox/difbuilder/pkg/dif"
)

func cmdConvert(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	tag := fs.String("version", "", "Target engine: mbg, tge, tgea, t3d")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 2 || *tag == "" {
		fmt.Fprintln(os.Stderr, "Usage: diftool convert -version <tag> <in.dif> <out.dif>")
		return errUsage
	}
	to, err := dif.Lookup(*tag)
	if err != nil {
		return err
	}

	d, from, err := dif.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if len(d.GameEntities) > 0 && !to.GameEntities {
		logger.Warn("target version drops game entities", zap.Int("count", len(d.GameEntities)))
	}
	if hasTriggerProperties(d) && !to.TriggerProperties {
		logger.Warn("target version drops trigger properties")
	}
	if from.Tag != to.Tag {
		d.Retarget(to)
	}
	if err := dif.WriteFile(fs.Arg(1), d, *tag); err != nil {
		return err
	}
	logger.Info("converted interior",
		zap.String("from", from.Tag),
		zap.String("to", *tag),
		zap.String("path", fs.Arg(1)),
	)
	fmt.Fprintf(out, "Converted %s (%s) -> %s (%s)\n", fs.Arg(0), from.Tag, fs.Arg(1), *tag)
	return nil
}

func hasTriggerProperties(d *dif.DIF) bool {
	for _, t := range d.Triggers {
		if len(t.Properties) > 0 {
			return true
		}
	}
	return false
}
