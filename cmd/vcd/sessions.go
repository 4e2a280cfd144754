package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pflow-xyz/go-vcd/store"
	"github.com/pflow-xyz/go-vcd/writer"
)

func sessions(args []string) error {
	if len(args) < 1 {
		sessionsUsage()
		return fmt.Errorf("sessions wants a subcommand: import, list, or export")
	}
	switch args[0] {
	case "import":
		return sessionsImport(args[1:])
	case "list":
		return sessionsList(args[1:])
	case "export":
		return sessionsExport(args[1:])
	default:
		sessionsUsage()
		return fmt.Errorf("unknown sessions subcommand: %s", args[0])
	}
}

func sessionsUsage() {
	fmt.Fprintf(os.Stderr, `Usage: vcd sessions <import|list|export> [options]

Archive traces in a SQLite session database.

  vcd sessions import <trace.vcd> --db traces.db [--name label]
  vcd sessions list --db traces.db
  vcd sessions export <session-id> --db traces.db [--output out.vcd]
`)
}

func sessionsImport(args []string) error {
	fs := flag.NewFlagSet("sessions import", flag.ExitOnError)
	dbPath := fs.String("db", "traces.db", "Session database path")
	name := fs.String("name", "", "Session name (default: trace file basename)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		sessionsUsage()
		return fmt.Errorf("import wants exactly one trace file")
	}

	doc, err := parseFile(fs.Arg(0))
	if err != nil {
		return err
	}
	if *name == "" {
		*name = filepath.Base(fs.Arg(0))
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := s.Save(context.Background(), *name, doc)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %s as session %s\n", *name, id)
	return nil
}

func sessionsList(args []string) error {
	fs := flag.NewFlagSet("sessions list", flag.ExitOnError)
	dbPath := fs.String("db", "traces.db", "Session database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	all, err := s.List(context.Background())
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println("No sessions.")
		return nil
	}
	fmt.Printf("%-36s  %-20s  %-10s  %8s  %8s\n", "ID", "NAME", "TIMESCALE", "SIGNALS", "EVENTS")
	for _, sess := range all {
		fmt.Printf("%-36s  %-20s  %-10s  %8d  %8d\n",
			sess.ID, sess.Name, sess.Timescale, sess.Signals, sess.Events)
	}
	return nil
}

func sessionsExport(args []string) error {
	fs := flag.NewFlagSet("sessions export", flag.ExitOnError)
	dbPath := fs.String("db", "traces.db", "Session database path")
	outputFile := fs.String("output", "", "Write trace to file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		sessionsUsage()
		return fmt.Errorf("export wants exactly one session id")
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	doc, err := s.Load(context.Background(), fs.Arg(0))
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
