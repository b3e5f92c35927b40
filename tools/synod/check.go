package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/ablicq/SLR210-blockchain/lib/trace"
)

const checkUsageStr = `
Usage: synod check [flags] <tracefile>

Verifies agreement, validity, ballot monotonicity and disjointness,
and crash absorption over a trace recorded by synod run -trace.

The flags are:
`

func checkCommand(args []string) bool {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), checkUsageStr)
		fs.PrintDefaults()
		os.Exit(1)
	}
	dump := fs.Bool("dump", false, "print every event")
	level := fs.String("v", "WARNING", "log level")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
	}
	if err := setupLogging(*level); err != nil {
		fmt.Fprintf(os.Stderr, "synod check: %v\n", err)
		return false
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		log.Error(err)
		return false
	}
	defer f.Close()
	n, evs, err := trace.Load(bufio.NewReader(f))
	if err != nil {
		log.Errorf("%s: %v", fs.Arg(0), err)
		return false
	}
	if *dump {
		for _, ev := range evs {
			fmt.Println(ev)
		}
	}

	if err := trace.Check(evs, n); err != nil {
		fmt.Printf("%d events of %d processes: %v\n", len(evs), n, err)
		return false
	}
	fmt.Printf("%d events of %d processes: ok\n", len(evs), n)
	return true
}
