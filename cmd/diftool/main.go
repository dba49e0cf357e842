// diftool builds, inspects and converts Torque interior (DIF) files.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/difbuilder/internal/logger"
)

// errUsage marks a bad command line; the usage text has already been printed.
var errUsage = errors.New("usage")

func main() {
	err := run(os.Args[1:], os.Stdout)
	logger.Sync()
	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		printUsage(os.Stderr)
		return errUsage
	}

	command := args[0]
	args = args[1:]

	// build re-initializes from its config.
	if err := logger.Init("warn", ""); err != nil {
		return err
	}

	switch command {
	case "build":
		return cmdBuild(args, out)
	case "info":
		return cmdInfo(args, out)
	case "verify":
		return cmdVerify(args, out)
	case "convert":
		return cmdConvert(args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `diftool - Torque interior (DIF) utility

Usage:
  diftool <command> [options]

Commands:
  build [options] [mesh.obj]          Compile an OBJ mesh (and scene) into a DIF
  info <file.dif>                     Show version, counts, materials and entities
  verify [-j N] <file.dif>...         Check files re-encode to identical bytes
  convert -version <tag> <in> <out>   Re-encode a DIF for another engine

Build options:
  -config <file>     Config file (.yaml or .toml)
  -version <tag>     Target engine: mbg, tge, tgea, t3d
  -split <method>    BSP split method: fast, exhaustive, none
  -mb-only           Write placeholder hull data (Marble Blast only)
  -scene <file>      Scene manifest with pathed interiors, triggers, entities
  -preview <file>    PNG thumbnail to embed
  -o <file>          Output path (default: mesh name with .dif)

Examples:
  diftool build -version tge level.obj
  diftool build -scene level.yaml -o level.dif
  diftool info level.dif
  diftool verify -j 8 interiors/*.dif
  diftool convert -version t3d old.dif new.dif`)
}
