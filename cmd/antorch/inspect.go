package main

import (
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/born-ml/antorch/internal/checkpoint"
)

func runInspect(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "Checkpoint file to inspect")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if *in == "" {
		return fmt.Errorf("%w: -in is required", errUsage)
	}

	c, err := checkpoint.LoadFile(*in)
	if err != nil {
		return err
	}
	return printCheckpoint(stdout, c)
}

func printCheckpoint(w io.Writer, c *checkpoint.Checkpoint) error {
	fmt.Fprintf(w, "step: %d\n", c.Step)
	fmt.Fprintf(w, "loss: %g\n", c.Loss)
	fmt.Fprintf(w, "tensors: %d\n", len(c.Tensors))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSHAPE\tELEMENTS")
	for _, e := range c.Tensors {
		fmt.Fprintf(tw, "%s\t%v\t%d\n", e.Name, e.Array.Shape(), e.Array.NumElements())
	}
	return tw.Flush()
}
