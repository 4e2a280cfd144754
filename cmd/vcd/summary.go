package main

import (
	"flag"
	"fmt"
	"os"
)

func summary(args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: vcd summary <trace.vcd>

Display trace statistics: metadata, signal count, event count, time
range, and per-signal change counts.
`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("summary wants exactly one trace file")
	}

	doc, err := parseFile(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Println("=== Trace Summary ===")
	if doc.Header.Date != "" {
		fmt.Printf("Date: %s\n", doc.Header.Date)
	}
	if doc.Header.Version != "" {
		fmt.Printf("Version: %s\n", doc.Header.Version)
	}
	if doc.Header.Timescale.Magnitude > 0 {
		fmt.Printf("Timescale: %s\n", doc.Header.Timescale)
	}
	fmt.Printf("Signals: %d\n", doc.Symbols.Len())
	fmt.Printf("Change events: %d\n", doc.Timeline.Len())

	if first, ok := doc.Timeline.FirstTime(); ok {
		var last uint64
		for _, v := range doc.Symbols.Variables() {
			if t, ok := doc.Timeline.LastTime(v); ok && t > last {
				last = t
			}
		}
		fmt.Printf("Time range: #%d to #%d\n", first, last)
	}

	fmt.Println("\nPer-signal changes:")
	for _, v := range doc.Symbols.Variables() {
		fmt.Printf("  %-30s %s %d bit(s): %d\n", v.Path(), v.Type, v.Width, len(doc.Timeline.Events(v)))
	}
	return nil
}
