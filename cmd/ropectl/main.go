// Package main is the entry point for ropectl, a command line front end to
// the textrope engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/npillmayer/schuko/tracing"

	"github.com/dshills/textrope/internal/config"
	"github.com/dshills/textrope/internal/engine"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// traceKeys lists the tracers whose level follows logging.level.
var traceKeys = []string{
	"textrope.rope",
	"textrope.encoding",
	"textrope.engine",
	"textrope.codec",
	"textrope.script",
}

// errUsage signals a bad command line; the usage text has been printed.
var errUsage = errors.New("usage")

// env carries what every command needs.
type env struct {
	cfg    *config.Config
	engine *engine.Engine
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = []command{
	{"inspect", "Report the structure and metrics of a file or frame", cmdInspect},
	{"pack", "Write a file as a rope frame", cmdPack},
	{"unpack", "Restore the content of a rope frame", cmdUnpack},
	{"run", "Run a Lua script against the engine", cmdRun},
	{"stress", "Build a deep rope and query it concurrently", cmdStress},
	{"encodings", "List the registered encodings", cmdEncodings},
	{"version", "Show version information", cmdVersion},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ropectl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var configPath, logLevel string
	fs.StringVar(&configPath, "config", "", "Path to configuration file")
	fs.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, error); overrides the configuration")
	fs.Usage = func() { usage(fs, stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cmd, ok := lookupCommand(fs.Arg(0))
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", fs.Arg(0))
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}
	setupTracing(cfg.Logging.Level)

	eng, err := engine.New(engine.WithConfig(cfg.RopeConfig()))
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	e := &env{cfg: cfg, engine: eng, stdin: stdin, stdout: stdout, stderr: stderr}
	if err := cmd.run(ctx, e, fs.Args()[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		fmt.Fprintf(stderr, "Error: %s: %v\n", cmd.name, err)
		return 1
	}
	return 0
}

func lookupCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, "ropectl - inspect, persist and script textrope ropes\n\n")
	fmt.Fprintf(w, "Usage: ropectl [options] <command> [arguments]\n\n")
	fmt.Fprintf(w, "Options:\n")
	fs.PrintDefaults()
	fmt.Fprintf(w, "\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintf(w, "  ropectl inspect notes.txt              Report byte, char and grapheme counts\n")
	fmt.Fprintf(w, "  ropectl pack -z zstd notes.txt out.trp Write a compressed frame\n")
	fmt.Fprintf(w, "  ropectl unpack -header out.trp         Show the frame header\n")
	fmt.Fprintf(w, "  ropectl run check.lua                  Run a script with the rope module\n")
}

// setupTracing applies level to every textrope tracer.
func setupTracing(level string) {
	l := tracing.TraceLevelFromString(level)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(l)
	}
}

func cmdVersion(_ context.Context, e *env, _ []string) error {
	fmt.Fprintf(e.stdout, "ropectl %s\n", version)
	fmt.Fprintf(e.stdout, "Commit: %s\n", commit)
	fmt.Fprintf(e.stdout, "Built: %s\n", date)
	return nil
}
