// Command evented declares a set of events, subscribes a logging observer to each, and fires them.
// It's a small harness for watching dispatch diagnostics and counters.
package main

import (
	"errors"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/saylorsolutions/evented/dispatcher"
	"github.com/saylorsolutions/evented/env"
	"github.com/saylorsolutions/evented/metrics"
	"github.com/saylorsolutions/evented/observer"
	"github.com/saylorsolutions/evented/slogx"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
	"io"
	"os"
	"slices"
	"strings"
)

const usageText = `evented declares events, subscribes a logging observer to each, and dispatches them.
Remaining arguments are passed to every dispatch.

USAGE:
  evented [FLAGS] [ARGS...]

FLAGS
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		_, _ = fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, new(usageError)) {
			_, _ = fmt.Fprintln(os.Stderr, "Run with --help for usage information")
		}
		os.Exit(1)
	}
}

type options struct {
	eventsFile string
	events     []string
	fire       []string
	count      int
	logFormat  string
	metrics    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	var opts options
	flags := flag.NewFlagSet("evented", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.eventsFile, "events", "f", "", "YAML file declaring events under an 'events' key")
	flags.StringSliceVarP(&opts.events, "event", "e", nil, "Event names to declare, in addition to --events")
	flags.StringSliceVar(&opts.fire, "fire", nil, "Events to dispatch, defaults to every declared event")
	flags.IntVarP(&opts.count, "count", "n", 1, "Number of dispatch passes per fired event")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format, either 'text' or 'json'. Overrides "+env.LogFormatKey)
	flags.BoolVar(&opts.metrics, "metrics", false, "Print dispatch counters in Prometheus text format when done")
	flags.Usage = func() {
		_, _ = fmt.Fprint(stderr, usageText+flags.FlagUsages())
	}
	if err := flags.Parse(args); err != nil {
		return nil, nil, err
	}
	return &opts, flags.Args(), nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, dispatchArgs, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.count < 0 {
		return newUsageError("count must not be negative")
	}

	settings := env.LoadSettings()
	settings.LogFormat = logFormat(opts.logFormat, stderr)
	if settings.LogFormat != env.FormatText && settings.LogFormat != env.FormatJSON {
		return newUsageError("unknown log format '%s'", opts.logFormat)
	}
	log, closeLog, err := slogx.New(settings, stderr)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLog()
	}()

	names, err := declaredNames(opts)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return newUsageError("no events declared, use --events or --event")
	}

	stats := metrics.NewStats("evented")
	d := dispatcher.New(names,
		dispatcher.WithLogger(log),
		dispatcher.WithEventOptions(observer.WithStats(stats)),
	)
	sub := &printSubscriber{out: stdout}
	if err := d.AddObserver(sub); err != nil {
		return err
	}

	fire := opts.fire
	if len(fire) == 0 {
		fire = names
	}
	for _, name := range fire {
		if !slices.Contains(names, name) {
			log.Warn("Event was not declared, dispatch will be ignored", "event", name)
		}
		for range opts.count {
			d.Dispatch(name, toAny(dispatchArgs)...)
		}
	}
	log.Info("Dispatch complete", "events", len(fire), "received", sub.received)

	if opts.metrics {
		return writeMetrics(stdout, stats)
	}
	return nil
}

// logFormat picks the flag value if given, then the environment, then text for a terminal and JSON otherwise.
func logFormat(flagValue string, stderr io.Writer) string {
	if len(flagValue) > 0 {
		return strings.ToLower(flagValue)
	}
	if len(env.Val(env.LogFormatKey, "")) > 0 {
		return env.OneOf(env.LogFormatKey, env.FormatText, env.FormatText, env.FormatJSON)
	}
	if f, ok := stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return env.FormatText
	}
	return env.FormatJSON
}

func declaredNames(opts *options) ([]string, error) {
	var names []string
	if len(opts.eventsFile) > 0 {
		f, err := os.Open(opts.eventsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open events file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
		names, err = dispatcher.LoadNames(f)
		if err != nil {
			return nil, fmt.Errorf("failed to load events file '%s': %w", opts.eventsFile, err)
		}
	}
	return append(names, opts.events...), nil
}

func writeMetrics(w io.Writer, stats *metrics.Stats) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(stats); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func toAny(args []string) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		out[i] = arg
	}
	return out
}

// printSubscriber handles every event by printing its name and arguments on one line.
type printSubscriber struct {
	out      io.Writer
	received int
}

var printable = observer.AnyPass(observer.IsType[string](), observer.IsType[fmt.Stringer]())

func (s *printSubscriber) Handler(event string) (any, bool) {
	return func(args ...any) error {
		assertions := make([]observer.ArgAssertion, len(args))
		for i := range assertions {
			assertions[i] = printable
		}
		if err := observer.ArgSpec(0, assertions...)(args); err != nil {
			return err
		}
		s.received++
		line := event
		for _, arg := range args {
			line += " " + fmt.Sprint(arg)
		}
		_, err := fmt.Fprintln(s.out, line)
		return err
	}, true
}
