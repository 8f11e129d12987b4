// Package main provides the antorch CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
)

const version = "v0.1.0-dev"

var errUsage = errors.New("usage")

func main() {
	log.SetFlags(0)
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatalf("antorch: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stdout)
		return nil
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "antorch %s\n", version)
		return nil
	case "train":
		return runTrain(args[1:], stdout, stderr)
	case "inspect":
		return runInspect(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "antorch - reverse-mode autodiff for Go")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version    Show version")
	fmt.Fprintln(w, "  train      Fit a small MLP to XOR and optionally save a checkpoint")
	fmt.Fprintln(w, "  inspect    Print the contents of a checkpoint")
}
