// Package main provides virtdemo, a terminal demo that scrolls through a large
// list of variable-height entries while only building the visible ones.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v3"
	flag "github.com/spf13/pflag"

	"github.com/ayn2op/virtview"
	"github.com/ayn2op/virtview/virtual"
)

const headerHeight = 2

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	cfg, err := parseArgs(args, out)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	defer closeLog()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	screen.EnableMouse()

	app := virtview.NewApplication().SetScreen(screen)
	gen := newEntryGenerator(cfg.Seed)
	list := newList(cfg, logger, gen.generate(cfg.Items))
	list.SetScheduler(app)
	app.SetRoot(newView(list))

	if cfg.Stream > 0 {
		done := make(chan struct{})
		defer close(done)
		go stream(app, list, gen, cfg.Stream, done)
	}

	logger.Info("starting", "items", cfg.Items, "estimated_height", cfg.EstimatedHeight, "overscan", cfg.Overscan)
	if err := app.Run(); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	engine := list.Engine()
	logger.Info("stopped",
		"items", list.GetItemCount(),
		"measured", engine.Cache().Len(),
		"corrections", engine.Corrections(),
		"reconciles", engine.Reconciles(),
	)
	return 0
}

// parseArgs resolves the configuration from defaults, an optional config
// file and flags, in increasing precedence.
func parseArgs(args []string, out io.Writer) (Config, error) {
	flagSet := flag.NewFlagSet("virtdemo", flag.ContinueOnError)
	flagSet.SetOutput(out)
	flagSet.Usage = func() {
		fmt.Fprintf(out, "Usage: virtdemo [options]\n\n")
		fmt.Fprintf(out, "Options:\n")
		flagSet.PrintDefaults()
	}

	defaults := DefaultConfig()
	configPath := flagSet.StringP("config", "c", "", "JSONC config file")
	items := flagSet.IntP("items", "n", defaults.Items, "Number of generated entries")
	estimate := flagSet.IntP("estimate", "e", defaults.EstimatedHeight, "Estimated entry height in rows")
	overscan := flagSet.IntP("overscan", "o", defaults.Overscan, "Entries built beyond each viewport edge, in estimated heights")
	seed := flagSet.Uint64("seed", defaults.Seed, "Random seed for entry bodies")
	header := flagSet.Bool("header", defaults.Header, "Show a header above the entries")
	trackEnd := flagSet.Bool("track-end", defaults.TrackEnd, "Keep following the end of the list")
	streamRate := flagSet.Int("stream", defaults.Stream, "Entries appended per second (0 disables)")
	logFile := flagSet.StringP("log", "l", defaults.LogFile, "Write logs to this file")
	logLevel := flagSet.String("log-level", defaults.LogLevel, "Log level: debug|info|warn|error")

	if err := flagSet.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := defaults
	if *configPath != "" {
		var err error
		if cfg, err = loadConfigFile(*configPath, cfg); err != nil {
			return Config{}, err
		}
	}

	// Flags only override what was explicitly set.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "items":
			cfg.Items = *items
		case "estimate":
			cfg.EstimatedHeight = *estimate
		case "overscan":
			cfg.Overscan = *overscan
		case "seed":
			cfg.Seed = *seed
		case "header":
			cfg.Header = *header
		case "track-end":
			cfg.TrackEnd = *trackEnd
		case "stream":
			cfg.Stream = *streamRate
		case "log":
			cfg.LogFile = *logFile
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// newLogger opens the log file. The terminal is owned by the UI, so without
// a file logs are discarded.
func newLogger(cfg Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { _ = f.Close() }, nil
}

func newList(cfg Config, logger *slog.Logger, entries []entry) *virtview.VirtualList[entry] {
	list := virtview.NewVirtualList(renderEntry).
		SetEstimatedHeight(cfg.EstimatedHeight).
		SetOverscan(cfg.Overscan).
		SetLogger(logger).
		SetKeyPolicy(virtual.KeyByField[entry]("ID")).
		SetTrackEnd(cfg.TrackEnd).
		SetChangedFunc(func(index int) {
			logger.Debug("cursor moved", "index", index)
		})
	list.SetItems(entries)
	list.SetBorders(virtview.BordersAll).
		SetBorderSet(virtview.BorderSetRound()).
		SetTitle(" virtdemo ")

	if cfg.Header {
		header := virtview.NewTextItem(fmt.Sprintf(
			"%d entries, estimated height %d, overscan %d", len(entries), cfg.EstimatedHeight, cfg.Overscan,
		))
		header.SetBorderPadding(0, 1, 1, 0)
		list.SetHeader(header, headerHeight)
	}
	return list
}

// stream appends generated entries to the list until done is closed.
func stream(app *virtview.Application, list *virtview.VirtualList[entry], gen *entryGenerator, perSecond int, done <-chan struct{}) {
	ticker := time.NewTicker(time.Second / time.Duration(perSecond))
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			entries := gen.generate(1)
			app.QueueUpdateDraw(func() {
				list.AppendItems(entries...)
			})
		}
	}
}
