// Package cli implements the relay demo command.
//
// It drives the coordination core through three scenarios: a
// producer-consumer pipeline ("messages"), a shared counter round
// ("counter") and a parallel for-each ("foreach"). Output is styled for the
// terminal, or rendered as a live view with -tui.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ib-77/relay/pkg/relay/core"
)

const (
	defaultWorkers   = 8
	defaultProducers = 2
	defaultCount     = 4
)

var scenarios = []string{"messages", "counter", "foreach"}

// Config holds the parsed command line.
type Config struct {
	Scenario  string
	Workers   int
	Producers int
	Count     int
	Delay     time.Duration
	Timeout   time.Duration
	NoColor   bool
	TUI       bool
	Verbose   bool
}

// Run is the entry point of the relay command.
func Run(args []string) error {
	return run(context.Background(), args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		ctx = core.WithLogger(ctx, logger)
	}
	ctx = core.WithWorkerOptions(ctx, cfg.Workers)

	styles := newStyles(stdout, cfg.NoColor)
	if cfg.TUI {
		return runTUI(ctx, cfg, stdout, styles)
	}

	rep := newPlainReporter(stdout, styles)
	rep.Title(fmt.Sprintf("relay %s", cfg.Scenario))
	summary, err := runScenario(ctx, cfg, rep)
	rep.Finish(summary, err)
	return err
}

func parseArgs(args []string, output io.Writer) (Config, error) {
	fs := flag.NewFlagSet("relay", flag.ContinueOnError)
	fs.SetOutput(output)

	cfg := Config{}
	fs.IntVar(&cfg.Workers, "workers", defaultWorkers, "Number of parallel for-each workers")
	fs.IntVar(&cfg.Producers, "producers", defaultProducers, "Number of producers in the messages scenario")
	fs.IntVar(&cfg.Count, "count", defaultCount, "Messages per producer, or items for counter/foreach")
	fs.DurationVar(&cfg.Delay, "delay", 0, "Pause between sends or per item")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "Consumer idle timeout (0 waits for Stop)")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&cfg.TUI, "tui", false, "Render a live terminal view")
	fs.BoolVar(&cfg.Verbose, "v", false, "Debug logging on stderr")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: relay [options] [messages|counter|foreach]\n")
		fmt.Fprintln(fs.Output(), "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output(), "Examples:")
		fmt.Fprintln(fs.Output(), "  relay messages")
		fmt.Fprintln(fs.Output(), "  relay -producers 4 -count 10 -delay 100ms messages")
		fmt.Fprintln(fs.Output(), "  relay -timeout 1500ms messages")
		fmt.Fprintln(fs.Output(), "  relay -count 10 counter")
		fmt.Fprintln(fs.Output(), "  relay -workers 4 -count 100 -delay 100ms -tui foreach")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Scenario = "messages"
	if fs.NArg() > 0 {
		cfg.Scenario = fs.Arg(0)
	}

	if !knownScenario(cfg.Scenario) {
		fs.Usage()
		return Config{}, fmt.Errorf("unknown scenario %q", cfg.Scenario)
	}
	if cfg.Workers <= 0 || cfg.Producers <= 0 || cfg.Count < 0 {
		return Config{}, fmt.Errorf("workers and producers must be positive, count non-negative")
	}
	if cfg.Delay < 0 || cfg.Timeout < 0 {
		return Config{}, fmt.Errorf("delay and timeout must not be negative")
	}

	return cfg, nil
}

func knownScenario(name string) bool {
	for _, s := range scenarios {
		if s == name {
			return true
		}
	}
	return false
}
