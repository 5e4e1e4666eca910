// Package ui provides a terminal interface showing the progress of a volume
// traversal together with the log output produced meanwhile.
package ui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertwitch/fltload/internal/digest"
)

type progressProvider interface {
	Progress() digest.Progress
}

// Handler runs the terminal interface.
type Handler struct {
	title      string
	tracker    progressProvider
	logHandler *teaLogWriter
	program    *tea.Program
}

// NewHandler returns a pointer to a new [Handler] showing the progress of
// tracker under the given title.
func NewHandler(title string, tracker progressProvider) *Handler {
	return &Handler{
		title:      title,
		tracker:    tracker,
		logHandler: newTeaLogWriter(),
	}
}

// LogWriter returns a writer whose lines appear in the interface while it
// runs.
func (uiHandler *Handler) LogWriter() io.Writer {
	return uiHandler.logHandler
}

// Launch runs the interface until the tracked traversal finishes, the user
// quits or ctx is done. Pressing ctrl+c also calls cancel.
func (uiHandler *Handler) Launch(ctx context.Context, cancel context.CancelFunc) error {
	model := NewTeaModel(uiHandler.title, uiHandler.tracker, cancel)

	uiHandler.program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	uiHandler.logHandler.SetProgram(uiHandler.program)
	uiHandler.logHandler.Start()
	defer uiHandler.logHandler.Stop()

	if _, err := uiHandler.program.Run(); err != nil {
		return fmt.Errorf("(ui-tea) %w", err)
	}

	return nil
}
