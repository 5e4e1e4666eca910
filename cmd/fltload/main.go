package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/desertwitch/fltload/internal/configuration"
	"github.com/desertwitch/fltload/internal/filesystem"
	"github.com/desertwitch/fltload/internal/flt"
	"github.com/desertwitch/fltload/internal/loader"
)

const (
	stackTraceBufMax = 1 << 24
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string

	uiEnabled    = flag.Bool("ui", false, "show a progress interface while reading pixels")
	debugEnabled = flag.Bool("debug", false, "enable debug logging")
	cpuprofile   = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile   = flag.String("memprofile", "", "write memory profile to this file")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "fltload %s\n\n", Version)
	fmt.Fprintf(out, "Usage: fltload [flags] <command> <file.flt>\n\n")
	fmt.Fprintf(out, "Commands:\n")
	fmt.Fprintf(out, "  info               print the volume header\n")
	fmt.Fprintf(out, "  digest [-pages]    print the blake3 digest of the volume\n")
	fmt.Fprintf(out, "  stats              print the sample range and mean\n\n")
	fmt.Fprintf(out, "Flags:\n")
	flag.PrintDefaults()
}

func setupLogging(level slog.Level) (*SlogManager, slog.Handler) {
	terminal := newTintHandler(os.Stderr, level)

	logs := NewSlogManager()
	logs.AddHandler(terminalLogHandler, terminal)

	slog.SetDefault(slog.New(logs))

	return logs, terminal
}

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	sigChan2 := make(chan os.Signal, 1)
	signal.Notify(sigChan2, syscall.SIGUSR1)
	go func() {
		for range sigChan2 {
			buf := make([]byte, stackTraceBufMax)
			stacklen := runtime.Stack(buf, true)
			os.Stderr.Write(buf[:stacklen])
		}
	}()
}

func newRegistry(fsHandler *filesystem.Handler) (*loader.Registry, error) {
	configHandler := configuration.NewHandler(&configuration.GodotenvProvider{}, &configuration.OSReader{})

	registry := loader.NewRegistry()
	if err := registry.Register(flt.NewFormat(fsHandler, configHandler)); err != nil {
		return nil, fmt.Errorf("(main) %w", err)
	}

	return registry, nil
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flag.Usage = usage
	flag.Parse()

	level := slog.LevelInfo
	if *debugEnabled {
		level = slog.LevelDebug
	}

	logs, terminal := setupLogging(level)
	setupSignalHandlers(cancel)

	fsHandler := filesystem.NewHandler(&filesystem.OS{}, &filesystem.Unix{})

	memObserver := newMemoryObserver(ctx, fsHandler)
	defer memObserver.Stop()

	cpuProfiler := newProfiler(ctx, profileCPU, *cpuprofile)
	defer cpuProfiler.Stop()

	allocProfiler := newProfiler(ctx, profileAllocs, *memprofile)
	defer allocProfiler.Stop()

	registry, err := newRegistry(fsHandler)
	if err != nil {
		slog.Error("Failed to set up the format registry.", "err", err)
		ExitCode = 1

		return
	}

	app := NewApp(registry, os.Stdout, logs, terminal, level, *uiEnabled)

	if err := app.Run(ctx, cancel, flag.Args()); err != nil {
		if errors.Is(err, ErrUsage) {
			flag.Usage()
		}
		slog.Error("Failed to process the volume.", "err", err)
		ExitCode = 1
	}
}
