package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ablicq/SLR210-blockchain/lib/fs/atomic"
	"github.com/ablicq/SLR210-blockchain/model/synod"
	"github.com/ablicq/SLR210-blockchain/sim"
)

const runUsageStr = `
Usage: synod run [flags] <n> <faulty> <settle>

Runs n processes, of which faulty are made error-prone,
lets them all propose for settle milliseconds,
then holds all but one leader until the run ends.

The flags are:
`

// Run one experiment and report each process's final state.
// Returns false if the run failed or the processes disagreed.
func runCommand(ctx context.Context, args []string) bool {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), runUsageStr)
		fs.PrintDefaults()
		os.Exit(1)
	}
	linger := fs.Duration("linger", sim.DefaultLinger,
		"how long the leader runs alone")
	await := fs.Bool("await", false,
		"stop as soon as every live process has decided")
	seed := fs.Int64("seed", 0, "random seed, 0 for a clock-based one")
	crash := fs.Float64("crash", synod.DefaultCrashProb,
		"per-message crash probability of faulty processes")
	retry := fs.Duration("retry", synod.DefaultRetryDelay,
		"pause before retrying a refused ballot")
	delay := fs.Duration("delay", 0, "maximum random delivery delay")
	tracefile := fs.String("trace", "", "file to record the run's events in")
	level := fs.String("v", "WARNING", "log level")
	fs.Parse(args)

	if fs.NArg() != 3 {
		fs.Usage()
	}
	var nums [3]int
	for i := range nums {
		v, err := strconv.Atoi(fs.Arg(i))
		if err != nil {
			fmt.Fprintf(os.Stderr, "synod run: bad argument %q\n", fs.Arg(i))
			fs.Usage()
		}
		nums[i] = v
	}
	if err := setupLogging(*level); err != nil {
		fmt.Fprintf(os.Stderr, "synod run: %v\n", err)
		return false
	}

	cfg := sim.Config{
		N:          nums[0],
		F:          nums[1],
		Settle:     time.Duration(nums[2]) * time.Millisecond,
		Linger:     *linger,
		Await:      *await,
		CrashProb:  *crash,
		RetryDelay: *retry,
		MaxDelay:   *delay,
		Seed:       *seed,
	}
	res, err := sim.Run(ctx, cfg)
	if err != nil {
		log.Error(err)
		return false
	}

	fmt.Printf("seed %d, leader P%d, faulty %v\n",
		res.Seed, res.Leader, res.Faulty)
	for _, r := range res.Reports {
		fmt.Println(r)
	}

	ok := true
	if v, err := res.Agreed(); err != nil {
		fmt.Printf("DISAGREEMENT: %v\n", err)
		ok = false
	} else if v == synod.None {
		fmt.Println("no value decided")
	} else {
		fmt.Printf("agreed on %d\n", v)
	}
	if err := res.Check(); err != nil {
		fmt.Printf("trace check failed: %v\n", err)
		ok = false
	}

	if *tracefile != "" {
		if err := writeTrace(*tracefile, res); err != nil {
			log.Error(err)
			return false
		}
	}
	return ok
}

func writeTrace(filename string, res *sim.Result) error {
	err := atomic.Write(filename, 0644, func(w io.Writer) error {
		return res.Trace.Save(w, res.N)
	})
	if err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	log.Infof("wrote trace to %s", filename)
	return nil
}
