// Fair ticket-ordered critical section demo.
//
// Spawns THREAD_COUNT workers that share a budget of LOOP_COUNT critical
// section entries and prints one "<ticket>\t(<worker_id>)" line per entry,
// in strictly increasing ticket order.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fairx-dev/fairx"
)

// demoMaxDelay bounds the simulated per-worker work pauses.
const demoMaxDelay = 500 * time.Millisecond

func initLogger(verbose bool) *zap.Logger {
	c := zap.NewDevelopmentConfig()
	c.DisableStacktrace = true
	if !verbose {
		c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := c.Build()
	if err != nil {
		panic(err)
	}
	return log
}

func exitWithUsage() {
	fmt.Fprintf(os.Stderr,
		"Fair ticket-ordered critical section demo\n"+
			"USAGE:\n"+
			"\t%s [-verbose] THREAD_COUNT LOOP_COUNT\n"+
			"\tTHREAD_COUNT\t- number of worker goroutines to spawn\n"+
			"\tLOOP_COUNT\t- total number of critical section entries\n",
		os.Args[0])
	os.Exit(1)
}

// parseCount accepts positive decimal integers only.
func parseCount(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// parseArgs validates the positional arguments THREAD_COUNT LOOP_COUNT and
// builds the run configuration from them.
func parseArgs(args []string) (fairx.Config, error) {
	if len(args) != 2 {
		return fairx.Config{}, fmt.Errorf("invalid argument count: got %d, want 2", len(args))
	}
	workers, ok := parseCount(args[0])
	if !ok {
		return fairx.Config{}, fmt.Errorf("invalid thread count %q", args[0])
	}
	admissions, ok := parseCount(args[1])
	if !ok {
		return fairx.Config{}, fmt.Errorf("invalid loop count %q", args[1])
	}
	return fairx.Config{
		Workers:    workers,
		Admissions: admissions,
		MaxDelay:   demoMaxDelay,
	}, nil
}

func main() {
	var verbose bool
	flag.Usage = exitWithUsage
	flag.BoolVar(&verbose, "verbose", false, "Verbose logging")
	flag.Parse()

	cfg, err := parseArgs(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitWithUsage()
	}

	log := initLogger(verbose)

	log.Debug("starting run",
		zap.Int("workers", cfg.Workers),
		zap.Int("admissions", cfg.Admissions),
		zap.Duration("max_delay", cfg.MaxDelay))
	if err := fairx.Run(cfg, os.Stdout); err != nil {
		log.Fatal("run failed", zap.Error(err))
	}
	log.Debug("run complete")
}
