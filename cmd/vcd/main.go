package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "validate":
		if err := validate(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "format":
		if err := format(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "summary":
		if err := summary(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "export":
		if err := export(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "replay":
		if err := replay(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "sessions":
		if err := sessions(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printUsage()
	case "version", "-v", "--version":
		fmt.Println("vcd version 1.0.0")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`vcd - VCD waveform trace tool

Usage:
  vcd <command> [options]

Commands:
  validate   Parse a trace and report grammar violations
  format     Re-emit a trace in canonical delta-encoded form
  summary    Display trace statistics
  export     Export change events as CSV
  replay     Replay a trace and print sampled pin values
  sessions   Archive traces in a SQLite session database
  help       Show this help message
  version    Show version information

Examples:
  # Check a trace parses cleanly
  vcd validate capture.vcd

  # Canonicalize a trace for golden-file comparison
  vcd format capture.vcd --output canonical.vcd

  # Inspect a trace
  vcd summary capture.vcd

  # Sample a signal over time
  vcd replay capture.vcd --pin top.clk --step 10

  # Archive and list captures
  vcd sessions import capture.vcd --db traces.db
  vcd sessions list --db traces.db

For command-specific help, run:
  vcd <command> --help`)
}
