package digest

import (
	"sync"
	"time"
)

// Progress is a snapshot of a traversal in progress.
type Progress struct {
	Started         bool
	Finished        bool
	Error           error
	Percentage      float64
	StartTime       time.Time
	EndTime         time.Time
	EstimatedFinish time.Time
	TimeRemaining   time.Duration
	RowsTotal       int
	RowsProcessed   int
	BytesTotal      uint64
	BytesProcessed  uint64
	ByteRate        float64
}

// Tracker records the progress of a traversal. It is safe for concurrent
// use, so that a UI can poll it while rows are being read.
type Tracker struct {
	sync.RWMutex
	progress Progress
}

// NewTracker returns a pointer to a new [Tracker].
func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) start(rowsTotal int, bytesTotal uint64) {
	t.Lock()
	defer t.Unlock()

	now := time.Now()

	t.progress = Progress{
		Started:         true,
		StartTime:       now,
		EstimatedFinish: now,
		RowsTotal:       rowsTotal,
		BytesTotal:      bytesTotal,
	}
}

func (t *Tracker) update(rowsProcessed int, bytesProcessed uint64) {
	t.Lock()
	defer t.Unlock()

	now := time.Now()
	elapsed := now.Sub(t.progress.StartTime)

	t.progress.RowsProcessed = rowsProcessed
	t.progress.BytesProcessed = bytesProcessed

	if t.progress.BytesTotal > 0 {
		t.progress.Percentage = float64(bytesProcessed) / float64(t.progress.BytesTotal) * 100 //nolint:mnd
	}

	if elapsed < time.Second {
		return
	}

	instantRate := float64(bytesProcessed) / elapsed.Seconds()

	if t.progress.ByteRate == 0 {
		t.progress.ByteRate = instantRate
	} else {
		t.progress.ByteRate = 0.7*t.progress.ByteRate + 0.3*instantRate //nolint:mnd
	}

	if t.progress.ByteRate > 0 && bytesProcessed < t.progress.BytesTotal {
		remaining := float64(t.progress.BytesTotal-bytesProcessed) / t.progress.ByteRate
		t.progress.TimeRemaining = time.Duration(remaining * float64(time.Second))
		t.progress.EstimatedFinish = now.Add(t.progress.TimeRemaining)
	}
}

func (t *Tracker) end(err error) {
	t.Lock()
	defer t.Unlock()

	t.progress.Finished = true
	t.progress.Error = err
	t.progress.EndTime = time.Now()
	t.progress.TimeRemaining = 0
	t.progress.EstimatedFinish = t.progress.EndTime

	if err == nil {
		t.progress.Percentage = 100.0
	}
}

// Progress returns a snapshot of the current progress.
func (t *Tracker) Progress() Progress {
	t.RLock()
	defer t.RUnlock()

	return t.progress
}
