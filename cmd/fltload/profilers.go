package main

import (
	"context"
	"log/slog"
	"os"
	"runtime/pprof"
)

type profileKind int

const (
	profileCPU profileKind = iota
	profileAllocs
)

func (k profileKind) String() string {
	if k == profileCPU {
		return "cpu"
	}

	return "allocs"
}

// profiler writes a pprof profile to a file for as long as its context
// lives. CPU profiles are recorded over the whole run, allocation profiles
// are written once the profiler is stopped.
//
//nolint:containedctx
type profiler struct {
	kind     profileKind
	ctx      context.Context
	cancel   context.CancelFunc
	doneChan chan struct{}
}

func newProfiler(ctx context.Context, kind profileKind, path string) *profiler {
	prof := &profiler{kind: kind}
	prof.ctx, prof.cancel = context.WithCancel(ctx)
	prof.doneChan = make(chan struct{})

	go prof.profile(path)

	return prof
}

func (prof *profiler) profile(path string) {
	defer close(prof.doneChan)

	if path == "" {
		return
	}

	if prof.kind == profileAllocs {
		<-prof.ctx.Done()
	}

	f, err := os.Create(path)
	if err != nil {
		slog.Error("Could not create profile", "kind", prof.kind, "err", err)

		return
	}
	defer f.Close()

	switch prof.kind {
	case profileCPU:
		if err := pprof.StartCPUProfile(f); err != nil {
			slog.Error("Could not start profile", "kind", prof.kind, "err", err)

			return
		}
		defer pprof.StopCPUProfile()

		<-prof.ctx.Done()

	case profileAllocs:
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			slog.Error("Could not write profile", "kind", prof.kind, "err", err)
		}
	}
}

// Stop ends the profile and waits until it is written.
func (prof *profiler) Stop() {
	prof.cancel()
	<-prof.doneChan
}
