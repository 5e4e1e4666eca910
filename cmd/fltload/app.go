package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/desertwitch/fltload/internal/digest"
	"github.com/desertwitch/fltload/internal/image"
	"github.com/desertwitch/fltload/internal/loader"
	"github.com/desertwitch/fltload/internal/ui"
	"github.com/dustin/go-humanize"
)

type App struct {
	registry  *loader.Registry
	out       io.Writer
	logs      *SlogManager
	terminal  slog.Handler
	logLevel  slog.Level
	uiEnabled bool
}

// NewApp returns a pointer to a new [App]. Results are written to out, the
// terminal handler is the one the log manager is restored to after the
// interface has been shown.
func NewApp(registry *loader.Registry, out io.Writer, logs *SlogManager, terminal slog.Handler, logLevel slog.Level, uiEnabled bool) *App {
	return &App{
		registry:  registry,
		out:       out,
		logs:      logs,
		terminal:  terminal,
		logLevel:  logLevel,
		uiEnabled: uiEnabled,
	}
}

// Run executes a subcommand with its own arguments.
func (app *App) Run(ctx context.Context, cancel context.CancelFunc, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("(app) %w: no command given", ErrUsage)
	}

	command, args := args[0], args[1:]
	flags := flag.NewFlagSet(command, flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	perPage := false
	if command == "digest" {
		flags.BoolVar(&perPage, "pages", false, "also digest every page")
	}

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("(app) %w: %w", ErrUsage, err)
	}

	if flags.NArg() != 1 {
		return fmt.Errorf("(app) %w: %s needs exactly one file", ErrUsage, command)
	}
	path := flags.Arg(0)

	var err error
	switch command {
	case "info":
		err = app.Info(path)
	case "digest":
		err = app.Digest(ctx, cancel, path, perPage)
	case "stats":
		err = app.Stats(ctx, cancel, path)
	default:
		err = fmt.Errorf("%w: unknown command %q", ErrUsage, command)
	}

	if err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	return nil
}

// Info prints the header of a volume without reading any pixels.
func (app *App) Info(path string) error {
	ldr, err := app.registry.Open(path)
	if err != nil {
		return fmt.Errorf("(app-info) %w", err)
	}
	defer ldr.Close()

	header, err := ldr.Header()
	if err != nil {
		return fmt.Errorf("(app-info) %w", err)
	}

	pageHeight, ok := header.Meta.GetInt(image.MetaPageHeight)
	if !ok || pageHeight <= 0 {
		pageHeight = header.Height
	}

	fmt.Fprintf(app.out, "file:        %s\n", header.Filename)
	fmt.Fprintf(app.out, "format:      %s\n", header.Format)
	fmt.Fprintf(app.out, "width:       %d\n", header.Width)
	fmt.Fprintf(app.out, "height:      %d\n", header.Height)
	fmt.Fprintf(app.out, "page height: %d\n", pageHeight)
	fmt.Fprintf(app.out, "slices:      %d\n", header.Height/pageHeight)
	fmt.Fprintf(app.out, "size:        %s\n", humanize.IBytes(uint64(header.Size()))) //nolint:gosec

	return nil
}

// Digest loads a volume and prints its blake3 digest, and with perPage set
// the digest of every page.
func (app *App) Digest(ctx context.Context, cancel context.CancelFunc, path string, perPage bool) error {
	var result *digest.Result

	err := app.withImage(path, func(img image.Image) error {
		return app.traverse(ctx, cancel, "Digesting "+path, func(tracker *digest.Tracker) error {
			var err error
			result, err = digest.Compute(ctx, img, perPage, tracker)

			return err //nolint:wrapcheck
		})
	})
	if err != nil {
		return fmt.Errorf("(app-digest) %w", err)
	}

	fmt.Fprintf(app.out, "%s  %s\n", result.Sum, path)
	for i, sum := range result.Pages {
		fmt.Fprintf(app.out, "%s  page %d\n", sum, i)
	}

	return nil
}

// Stats loads a volume and prints the range and mean of its samples.
func (app *App) Stats(ctx context.Context, cancel context.CancelFunc, path string) error {
	var stats *digest.Stats

	err := app.withImage(path, func(img image.Image) error {
		return app.traverse(ctx, cancel, "Reading "+path, func(tracker *digest.Tracker) error {
			var err error
			stats, err = digest.ComputeStats(ctx, img, tracker)

			return err //nolint:wrapcheck
		})
	})
	if err != nil {
		return fmt.Errorf("(app-stats) %w", err)
	}

	fmt.Fprintf(app.out, "min:     %g\n", stats.Min)
	fmt.Fprintf(app.out, "max:     %g\n", stats.Max)
	fmt.Fprintf(app.out, "mean:    %g\n", stats.Mean)
	fmt.Fprintf(app.out, "samples: %s\n", humanize.Comma(int64(stats.Count))) //nolint:gosec

	return nil
}

func (app *App) withImage(path string, fn func(img image.Image) error) error {
	ldr, err := app.registry.Open(path)
	if err != nil {
		return err //nolint:wrapcheck
	}
	defer ldr.Close()

	img, err := ldr.Load()
	if err != nil {
		return err //nolint:wrapcheck
	}

	return fn(img)
}

// traverse runs fn, showing its progress in the terminal interface while it
// runs if that is enabled. Log output is routed into the interface for that
// time and restored to the terminal afterwards.
func (app *App) traverse(ctx context.Context, cancel context.CancelFunc, title string, fn func(tracker *digest.Tracker) error) error {
	tracker := digest.NewTracker()

	if !app.uiEnabled {
		return fn(tracker)
	}

	uiHandler := ui.NewHandler(title, tracker)

	app.logs.AddHandler(uiLogHandler, newTintHandler(uiHandler.LogWriter(), app.logLevel))
	app.logs.RemoveHandler(terminalLogHandler)

	var wg sync.WaitGroup
	var fnErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		fnErr = fn(tracker)
	}()

	uiErr := uiHandler.Launch(ctx, cancel)

	app.logs.AddHandler(terminalLogHandler, app.terminal)
	app.logs.RemoveHandler(uiLogHandler)

	if uiErr != nil {
		slog.Error("UI failure: falling back to terminal.", "err", uiErr)
	}

	wg.Wait()

	return fnErr
}
