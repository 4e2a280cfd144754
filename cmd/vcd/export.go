package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/pflow-xyz/go-vcd/waveform"
)

func export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	outputFile := fs.String("output", "", "Write CSV to file (default: stdout)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: vcd export <trace.vcd> [options]

Export change events as CSV with columns: time, signal, code, value.
Rows are in serialization order (ascending time, then identifier code),
so the export is deterministic.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("export wants exactly one trace file")
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

	w := csv.NewWriter(out)
	if err := w.Write([]string{"time", "signal", "code", "value"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	err = doc.EachBlock(func(ts uint64, changes []waveform.ChangeEvent) error {
		for _, ev := range changes {
			v, err := doc.Symbols.At(ev.Var)
			if err != nil {
				return err
			}
			row := []string{
				strconv.FormatUint(ts, 10),
				v.Path(),
				v.Code,
				ev.Value.String(),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
