package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/profile"

	"github.com/pflow-xyz/go-vcd/bridge"
	"github.com/pflow-xyz/go-vcd/waveform"
)

func replay(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ExitOnError)
	pinPath := fs.String("pin", "", "Dotted signal path to sample, e.g. top.clk (required)")
	step := fs.Uint64("step", 1, "Virtual-clock step in timescale ticks")
	until := fs.Uint64("until", 0, "Stop after this timestamp (default: last event)")
	cpuProfile := fs.Bool("profile", false, "Write a CPU profile for the replay run")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: vcd replay <trace.vcd> --pin <path> [options]

Drive a replay bridge over the trace, advancing the virtual clock in
fixed steps and printing the sampled pin value at each step.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Sample top.clk every 10 ticks
  vcd replay capture.vcd --pin top.clk --step 10

  # Profile a long replay
  vcd replay capture.vcd --pin top.clk --step 1 --profile
`)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *pinPath == "" {
		fs.Usage()
		return fmt.Errorf("replay wants one trace file and --pin")
	}
	if *step == 0 {
		return fmt.Errorf("--step must be positive")
	}
	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	doc, err := parseFile(fs.Arg(0))
	if err != nil {
		return err
	}

	path := strings.Split(*pinPath, ".")
	v, err := doc.Symbols.Find(path...)
	if err != nil {
		return err
	}

	br := bridge.NewReplay(doc)

	// Bind with the capability matching the declared type.
	var get func() (string, error)
	switch {
	case v.Type == waveform.VarReal:
		pin, err := br.InputReal(path...)
		if err != nil {
			return err
		}
		get = func() (string, error) {
			f, err := pin.Get()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("r%g", f), nil
		}
	case v.Width == 1:
		pin, err := br.Input(path...)
		if err != nil {
			return err
		}
		get = func() (string, error) {
			s, err := pin.Get()
			if err != nil {
				return "", err
			}
			return s.String(), nil
		}
	default:
		pin, err := br.InputVector(path...)
		if err != nil {
			return err
		}
		get = func() (string, error) {
			val, err := pin.Get()
			if err != nil {
				return "", err
			}
			return "b" + val.String(), nil
		}
	}

	end := *until
	if end == 0 {
		if last, ok := doc.Timeline.LastTime(v); ok {
			end = last
		}
	}

	for {
		val, err := get()
		if err != nil {
			fmt.Printf("#%d\t<undefined>\n", br.Now())
		} else {
			fmt.Printf("#%d\t%s\n", br.Now(), val)
		}
		if br.Now() >= end {
			return nil
		}
		if err := br.AdvanceClock(*step); err != nil {
			return err
		}
	}
}
