// Package main provides the lrsched CLI.
//
// lrsched prints the learning-rate curve produced by a YAML schedule
// description, without training anything:
//
//	lrsched --config schedule.yaml --steps 2000 --every 100
//	lrsched --config schedule.yaml --format csv > curve.csv
//	lrsched version
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/pflag"

	"github.com/born-ml/lrschedule/internal/config"
	"github.com/born-ml/lrschedule/internal/scheduler"
)

const version = "v0.1.0-dev"

type options struct {
	configPath string
	steps      int
	every      int
	format     string
	verbosity  int
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("lrsched %s\n", version)
		return
	}

	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "lrsched: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options

	flags := pflag.NewFlagSet("lrsched", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to the YAML schedule description (required)")
	flags.IntVar(&opts.steps, "steps", 0, "Number of steps to simulate (default: after.total_steps, or twice the warm-up)")
	flags.IntVar(&opts.every, "every", 1, "Print every n-th step")
	flags.StringVar(&opts.format, "format", "table", "Output format: table or csv")
	flags.IntVarP(&opts.verbosity, "v", "v", 0, "Log verbosity (1: handoffs, 2: every step)")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if opts.configPath == "" {
		return errors.New("--config is required")
	}
	if opts.every <= 0 {
		return fmt.Errorf("--every must be positive, got %d", opts.every)
	}
	if opts.format != "table" && opts.format != "csv" {
		return fmt.Errorf("unknown --format %q", opts.format)
	}

	logger := funcr.New(func(prefix, args string) {
		if prefix != "" {
			args = prefix + ": " + args
		}
		fmt.Fprintln(stderr, args)
	}, funcr.Options{Verbosity: opts.verbosity})

	return simulate(opts, stdout, logger)
}

func simulate(opts options, stdout io.Writer, logger logr.Logger) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	optimizer := cfg.NewOptimizer()
	schedule, err := cfg.Build(optimizer, scheduler.WithLogger(logger))
	if err != nil {
		return err
	}

	steps := opts.steps
	if steps <= 0 {
		steps = cfg.After.TotalSteps
	}
	if steps <= 0 {
		steps = 2 * cfg.WarmUp.Steps
	}
	logger.Info("Simulating schedule", "config", opts.configPath, "steps", steps, "policy", cfg.After.Policy)

	out := newCurveWriter(opts.format, stdout, len(optimizer.ParamGroups()))
	out.row(0, schedule.ActiveIndex(), schedule.LR())
	for step := 1; step <= steps; step++ {
		schedule.Step()
		if step%opts.every == 0 || step == steps {
			out.row(step, schedule.ActiveIndex(), schedule.LR())
		}
	}
	return out.flush()
}

// curveWriter prints one line per step with the active stage and every group's rate.
type curveWriter struct {
	csv bool
	w   io.Writer
	tw  *tabwriter.Writer
}

func newCurveWriter(format string, w io.Writer, groups int) *curveWriter {
	cw := &curveWriter{csv: format == "csv", w: w}

	header := []string{"step", "stage"}
	for i := 0; i < groups; i++ {
		header = append(header, "lr_"+strconv.Itoa(i))
	}
	if cw.csv {
		fmt.Fprintln(w, strings.Join(header, ","))
	} else {
		cw.tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(cw.tw, strings.Join(header, "\t"))
	}
	return cw
}

func (cw *curveWriter) row(step, stage int, lrs []float64) {
	fields := []string{strconv.Itoa(step), strconv.Itoa(stage)}
	for _, lr := range lrs {
		fields = append(fields, strconv.FormatFloat(lr, 'g', 6, 64))
	}
	if cw.csv {
		fmt.Fprintln(cw.w, strings.Join(fields, ","))
	} else {
		fmt.Fprintln(cw.tw, strings.Join(fields, "\t"))
	}
}

func (cw *curveWriter) flush() error {
	if cw.tw != nil {
		return cw.tw.Flush()
	}
	return nil
}
