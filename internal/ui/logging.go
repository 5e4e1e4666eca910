package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

type messageSender interface {
	Send(msg tea.Msg)
}

// teaLogWriter forwards written log lines into a running tea program.
type teaLogWriter struct {
	sync.Mutex
	program  messageSender
	doneChan chan struct{}
	logChan  chan logMsg
	started  bool
	stopped  bool
}

//nolint:mnd
func newTeaLogWriter() *teaLogWriter {
	return &teaLogWriter{
		doneChan: make(chan struct{}),
		logChan:  make(chan logMsg, 1000),
	}
}

func (wr *teaLogWriter) SetProgram(program messageSender) {
	wr.Lock()
	defer wr.Unlock()

	wr.program = program
}

func (wr *teaLogWriter) Start() {
	wr.Lock()
	defer wr.Unlock()

	if wr.started || wr.program == nil {
		return
	}
	wr.started = true

	go wr.processLogs(wr.program)
}

func (wr *teaLogWriter) Stop() {
	wr.Lock()
	defer wr.Unlock()

	if wr.stopped {
		return
	}
	wr.stopped = true

	close(wr.doneChan)
}

func (wr *teaLogWriter) processLogs(program messageSender) {
	for {
		select {
		case <-wr.doneChan:
			return
		case msg := <-wr.logChan:
			program.Send(msg)
		}
	}
}

// Write queues a log line for the program. Once stopped, lines are dropped.
func (wr *teaLogWriter) Write(p []byte) (int, error) {
	logStr := string(p)

	select {
	case <-wr.doneChan:
	case wr.logChan <- logMsg(logStr):
	}

	return len(p), nil
}
