// Command pcxttrace builds a headless PC/XT machine from a BIOS image
// and runs it for a fixed instruction budget, optionally printing a
// colorized instruction trace as it goes.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	pcxt "pcxt88"
)

func main() {
	biosPath := pflag.StringP("bios", "b", "", "path to an 8KB BIOS ROM image")
	floppyPath := pflag.StringP("floppy", "f", "", "optional floppy image to attach")
	hddPath := pflag.StringP("hdd", "d", "", "optional fixed-disk image to attach")
	instructions := pflag.IntP("instructions", "n", 1_000_000, "maximum instructions to execute")
	trace := pflag.BoolP("trace", "t", false, "print a colorized per-instruction trace")
	csvMode := pflag.String("csv", "", "emit a CSV trace instead: \"instruction\" or \"cycle\"")
	pflag.Parse()

	if *biosPath == "" {
		fmt.Fprintln(os.Stderr, "pcxttrace: -bios is required")
		os.Exit(2)
	}

	bios, err := os.ReadFile(*biosPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pcxttrace: reading BIOS image: %v\n", err)
		os.Exit(1)
	}

	var sink pcxt.TraceSink = pcxt.NopSink{}
	switch {
	case *csvMode == "instruction":
		sink = pcxt.NewCSVSink(os.Stdout, false)
	case *csvMode == "cycle":
		sink = pcxt.NewCSVSink(os.Stdout, true)
	case *csvMode != "":
		fmt.Fprintf(os.Stderr, "pcxttrace: unknown -csv mode %q\n", *csvMode)
		os.Exit(2)
	case *trace:
		sink = pcxt.NewConsoleSink(os.Stdout, false)
	}

	m, err := pcxt.Build(pcxt.MachineConfig{
		BIOSImage:          bios,
		Sink:               sink,
		RefreshEnabled:     true,
		RefreshPeriodTicks: 72,
		RefreshStealTicks:  1,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "pcxttrace: %v\n", err)
		os.Exit(1)
	}

	if *floppyPath != "" {
		data, err := os.ReadFile(*floppyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pcxttrace: reading floppy image: %v\n", err)
			os.Exit(1)
		}
		if err := m.AttachFloppy(data); err != nil {
			fmt.Fprintf(os.Stderr, "pcxttrace: %v\n", err)
			os.Exit(1)
		}
	}

	if *hddPath != "" {
		data, err := os.ReadFile(*hddPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "pcxttrace: reading hdd image: %v\n", err)
			os.Exit(1)
		}
		if err := m.AttachHDD(data); err != nil {
			fmt.Fprintf(os.Stderr, "pcxttrace: %v\n", err)
			os.Exit(1)
		}
		g := m.HDDGeometry()
		fmt.Fprintf(os.Stderr, "pcxttrace: hdd geometry C=%d H=%d S=%d\n", g.Cylinders, g.Heads, g.SectorsPerTrack)
	}

	outcome := m.Run(*instructions)
	fmt.Fprintf(os.Stderr, "pcxttrace: stopped after %d instructions, %d cycles (halted=%v offRails=%v)\n",
		outcome.Instructions, outcome.Cycles, outcome.Halted, outcome.OffRails)
}
