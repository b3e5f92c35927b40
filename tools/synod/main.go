package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("tool")

const usageStr = `
The synod command simulates single-decree Paxos (Synod) consensus
among a group of processes that may crash.

Usage:

	synod <command> [arguments]

The commands are:

	run	Run a group of processes until one value is decided
	check	Verify a trace recorded by run

`

func usage(usageString string) {
	fmt.Println(usageString)
	os.Exit(1)
}

// Log to stderr at the given level, for all modules.
func setupLogging(level string) error {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		return err
	}
	format := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{module:-6s} %{level:.4s} %{message}`)
	backend := logging.NewBackendFormatter(
		logging.NewLogBackend(os.Stderr, "", 0), format)
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return nil
}

func main() {
	if len(os.Args) < 2 {
		usage(usageStr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var ok bool
	switch os.Args[1] {
	case "run":
		ok = runCommand(ctx, os.Args[2:])
	case "check":
		ok = checkCommand(os.Args[2:])
	default:
		usage(usageStr)
	}
	if !ok {
		stop()
		os.Exit(1)
	}
}
