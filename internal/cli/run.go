// Package cli implements the rnx2crx and crx2rnx command line tools.
package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/arloliu/crinex/format"
	"github.com/arloliu/crinex/internal/metrics"
)

// Env is what a tool run may touch besides the file system.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Now    func() time.Time
}

// Run parses args and converts the named files, or stdin to stdout when no
// file is given.
func Run(ctx context.Context, dir Direction, args []string, env Env) error {
	tool := dir.String()
	s, err := parseFlags(tool, args, env.Stderr)
	if err != nil {
		return err
	}
	if env.Now == nil {
		env.Now = time.Now
	}

	runID := NewRunID()
	conv := &Converter{
		Dir:      dir,
		Settings: s.Settings,
		Log:      NewLogger(env.Stderr, tool, runID, s.Quiet),
	}
	if s.MetricsFile != "" {
		conv.Metrics = metrics.New(tool, runID)
	}

	if len(s.files) == 0 {
		err = runStream(ctx, conv, env)
	} else {
		err = runFiles(ctx, conv, s.files)
	}

	if conv.Metrics != nil {
		conv.Metrics.Finish(env.Now())
		if werr := conv.Metrics.WriteTextfile(s.MetricsFile); werr != nil {
			conv.Log.Warnf("metrics: %v", werr)
		}
	}

	return err
}

func runStream(ctx context.Context, conv *Converter, env Env) error {
	out := bufio.NewWriter(env.Stdout)
	if _, err := conv.ConvertStream(ctx, out, env.Stdin); err != nil {
		return err
	}

	return out.Flush()
}

func runFiles(ctx context.Context, conv *Converter, files []string) error {
	jobs, err := conv.Plan(files)
	if err != nil {
		return err
	}

	conv.Log.Infof("converting %d files with %d workers", len(jobs), conv.Settings.Jobs)
	var failed atomic.Int32
	err = RunBatch(ctx, jobs, conv.Settings.Jobs, func(ctx context.Context, job Job) error {
		err := conv.ConvertFile(ctx, job)
		if err != nil {
			failed.Add(1)
			conv.Log.Errorf("failed %s: %v", job.Input, err)
		}

		return err
	})
	if err != nil {
		return fmt.Errorf("%d of %d files not converted: %w", failed.Load(), len(jobs), err)
	}

	return nil
}

type flagSettings struct {
	Settings
	files []string
}

func parseFlags(tool string, args []string, stderr io.Writer) (*flagSettings, error) {
	fs := flag.NewFlagSet(tool, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] [file ...]\n\nWith no file, converts stdin to stdout.\n\n", tool)
		fs.PrintDefaults()
	}

	var (
		configPath string
		framing    string
		revision   string
		stampDate  string
		stampTime  string
		fl         Settings
	)
	fs.StringVar(&configPath, "c", "", "YAML config file")
	fs.StringVar(&fl.OutputDir, "o", "", "output directory (default: next to each input)")
	fs.BoolVar(&fl.DeleteInput, "d", false, "delete each input after a successful conversion")
	fs.BoolVar(&fl.Force, "f", false, "overwrite existing outputs")
	fs.BoolVar(&fl.Strict, "s", false, "wrap RINEX 3 records at 80 columns on output")
	fs.IntVar(&fl.Order, "e", 0, "differencing order, 0 to 9")
	fs.IntVar(&fl.Jobs, "j", 0, "files converted in parallel (default: number of CPUs)")
	fs.StringVar(&framing, "z", "", "output framing: keep, none, gzip, zstd, s2 or lz4")
	fs.IntVar(&fl.Level, "level", 0, "gzip level")
	fs.StringVar(&revision, "r", "", "expected revision: legacy or modern")
	fs.BoolVar(&fl.Verify, "verify", false, "decompress each result in memory and compare digests")
	fs.StringVar(&fl.MetricsFile, "metrics", "", "write Prometheus metrics to this textfile")
	fs.BoolVar(&fl.Quiet, "q", false, "log warnings and errors only")
	fs.StringVar(&stampDate, "date", "", "CRINEX header date as YYYY-MM-DD, UTC (default: now)")
	fs.StringVar(&stampTime, "time", "", "CRINEX header time as HH:MM, needs -date")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	s := DefaultSettings()
	if configPath != "" {
		fc, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		if err := s.Merge(fc); err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
	}

	var (
		ferr    error
		stamped bool
	)
	fs.Visit(func(f *flag.Flag) {
		if ferr != nil {
			return
		}
		switch f.Name {
		case "o":
			s.OutputDir = fl.OutputDir
		case "d":
			s.DeleteInput = fl.DeleteInput
		case "f":
			s.Force = fl.Force
		case "s":
			s.Strict = fl.Strict
		case "e":
			s.Order = fl.Order
		case "j":
			s.Jobs = fl.Jobs
		case "z":
			ferr = s.SetFraming(framing)
		case "level":
			s.Level = fl.Level
		case "r":
			s.Revision, ferr = format.ParseRevision(revision)
		case "verify":
			s.Verify = fl.Verify
		case "metrics":
			s.MetricsFile = fl.MetricsFile
		case "q":
			s.Quiet = fl.Quiet
		case "date", "time":
			stamped = true
		}
	})
	if ferr == nil && stamped {
		ferr = s.SetStamp(stampDate, stampTime)
	}
	if ferr != nil {
		return nil, ferr
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &flagSettings{Settings: s, files: fs.Args()}, nil
}
