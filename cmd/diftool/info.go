package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/difbuilder/pkg/dif"
	"github.com/Faultbox/difbuilder/pkg/encoding"
)

func cmdInfo(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: diftool info <file.dif>")
		return errUsage
	}

	d, v, err := dif.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	printInfo(out, fs.Arg(0), d, v)
	return nil
}

func printInfo(w io.Writer, path string, d *dif.DIF, v dif.Version) {
	fmt.Fprintf(w, "File:        %s\n", path)
	fmt.Fprintf(w, "Version:     %s\n", v)
	if len(d.Preview) > 0 {
		fmt.Fprintf(w, "Preview:     %d bytes\n", len(d.Preview))
	}
	fmt.Fprintf(w, "Interiors:   %d\n", len(d.Interiors))
	fmt.Fprintf(w, "Sub-objects: %d\n", len(d.SubObjects))
	fmt.Fprintf(w, "Triggers:    %d\n", len(d.Triggers))
	fmt.Fprintf(w, "Paths:       %d\n", len(d.PathFollowers))
	fmt.Fprintf(w, "Force fields: %d\n", len(d.ForceFields))
	fmt.Fprintf(w, "AI nodes:    %d\n", len(d.AISpecialNodes))
	fmt.Fprintf(w, "Vehicle:     %t\n", d.VehicleCollision != nil)

	for i, in := range d.Interiors {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Interior %d:\n", i)
		printInterior(w, in)
	}
	for i, in := range d.SubObjects {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Sub-object %d:\n", i)
		printInterior(w, in)
	}

	for _, p := range d.PathedInteriors() {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Path %q (%s): %d markers, %d ms, interior %d, triggers %v\n",
			encoding.FromDIF(p.Follower.Name), encoding.FromDIF(p.Follower.Datablock),
			len(p.Follower.WayPoints), p.Follower.TotalMS, p.Follower.InteriorIndex, p.Follower.TriggerIDs)
	}
	for _, t := range d.Triggers {
		fmt.Fprintf(w, "Trigger %q (%s) at %.2f %.2f %.2f\n",
			encoding.FromDIF(t.Name), encoding.FromDIF(t.Datablock), t.Offset.X, t.Offset.Y, t.Offset.Z)
	}
	if len(d.GameEntities) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Entities:")
		for _, e := range d.GameEntities {
			fmt.Fprintf(w, "  %-16s %-20s %.2f %.2f %.2f\n",
				encoding.FromDIF(e.GameClass), encoding.FromDIF(e.Datablock), e.Position.X, e.Position.Y, e.Position.Z)
		}
	}
}

func printInterior(w io.Writer, in *dif.Interior) {
	fmt.Fprintf(w, "  Points:    %d\n", len(in.Points))
	fmt.Fprintf(w, "  Planes:    %d\n", len(in.Planes))
	fmt.Fprintf(w, "  Surfaces:  %d (+%d null)\n", len(in.Surfaces), len(in.NullSurfaces))
	fmt.Fprintf(w, "  Hulls:     %d\n", len(in.ConvexHulls))
	fmt.Fprintf(w, "  BSP nodes: %d (%d solid leaves)\n", len(in.BSPNodes), len(in.BSPSolidLeaves))
	fmt.Fprintf(w, "  Bounds:    %.2f %.2f %.2f .. %.2f %.2f %.2f\n",
		in.BoundingBox.Min.X, in.BoundingBox.Min.Y, in.BoundingBox.Min.Z,
		in.BoundingBox.Max.X, in.BoundingBox.Max.Y, in.BoundingBox.Max.Z)
	fmt.Fprintln(w, "  Materials:")
	for _, m := range in.MaterialNames {
		fmt.Fprintf(w, "    %s\n", encoding.FromDIF(m))
	}
}
