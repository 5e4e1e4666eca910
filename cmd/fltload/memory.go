package main

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	// memorySampleInterval is the interval at which a [memoryObserver] samples.
	memorySampleInterval = 100 * time.Millisecond
)

type mappedBytesProvider interface {
	MappedBytes() int64
}

// memoryUsage is a single sample of the memory held by the program. Slices
// are memory-mapped, so their bytes show up as mapped and not as heap.
type memoryUsage struct {
	heap   uint64
	mapped int64
}

// memoryObserver records the peak heap allocation and the peak number of
// mapped slice bytes while the program runs.
type memoryObserver struct {
	sync.RWMutex
	mappings mappedBytesProvider
	readHeap func() uint64
	peak     memoryUsage
	stopChan chan struct{}
	doneChan chan struct{}
}

// newMemoryObserver returns a pointer to a new, running [memoryObserver]. It
// needs to be stopped with [memoryObserver.Stop] before program exit.
func newMemoryObserver(ctx context.Context, mappings mappedBytesProvider) *memoryObserver {
	obs := &memoryObserver{
		mappings: mappings,
		readHeap: heapAlloc,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
	go obs.run(ctx)

	return obs
}

func heapAlloc() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return m.Alloc
}

// Peak returns the highest heap and mapped usage seen so far.
func (o *memoryObserver) Peak() memoryUsage {
	o.RLock()
	defer o.RUnlock()

	return o.peak
}

// Stop takes a last sample, ends the observation and logs the peaks at debug
// level.
func (o *memoryObserver) Stop() {
	close(o.stopChan)
	<-o.doneChan

	peak := o.Peak()
	slog.Debug("Memory usage peaked at:",
		"heap", humanize.IBytes(peak.heap),
		"mapped", humanize.IBytes(uint64(peak.mapped)), //nolint:gosec
	)
}

func (o *memoryObserver) sample() {
	usage := memoryUsage{heap: o.readHeap()}
	if o.mappings != nil {
		usage.mapped = o.mappings.MappedBytes()
	}

	o.Lock()
	defer o.Unlock()

	o.peak.heap = max(o.peak.heap, usage.heap)
	o.peak.mapped = max(o.peak.mapped, usage.mapped)
}

func (o *memoryObserver) run(ctx context.Context) {
	defer close(o.doneChan)
	defer o.sample()

	ticker := time.NewTicker(memorySampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-o.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.sample()
		}
	}
}
