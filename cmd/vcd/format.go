package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pflow-xyz/go-vcd/writer"
)

func format(args []string) error {
	fs := flag.NewFlagSet("format", flag.ExitOnError)
	outputFile := fs.String("output", "", "Write canonical trace to file (default: stdout)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: vcd format <trace.vcd> [options]

Parse a trace and re-emit it in canonical delta-encoded form. The
output is deterministic, so two semantically identical traces format
to byte-identical files.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("format wants exactly one trace file")
	}

	doc, err := parseFile(fs.Arg(0))
	if err != nil {
		return err
	}

	out := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return writer.Write(out, doc)
}
