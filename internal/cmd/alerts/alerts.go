// Package alerts provides status lines for table-mode command output.
package alerts

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Alert is one status line with optional indented details.
type Alert struct {
	Level   Level
	Message string
	Details []string
	Err     error
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

// NewError creates a new error alert.
func NewError(message string) *Alert {
	return New(LevelError, message)
}

// NewWarning creates a new warning alert.
func NewWarning(message string) *Alert {
	return New(LevelWarning, message)
}

// NewInfo creates a new info alert.
func NewInfo(message string) *Alert {
	return New(LevelInfo, message)
}

// NewSuccess creates a new success alert.
func NewSuccess(message string) *Alert {
	return New(LevelSuccess, message)
}

// WithError adds an underlying error to the alert.
func (a *Alert) WithError(err error) *Alert {
	a.Err = err
	return a
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns the alert line without details.
func (a *Alert) String() string {
	message := fmt.Sprintf("%s %s", a.Level.Icon(), a.Message)
	if a.Err != nil {
		message += fmt.Sprintf(": %v", a.Err)
	}
	return message
}

// Writer prints alerts, colored when writing to a terminal.
type Writer struct {
	w        io.Writer
	useColor bool
}

// NewWriter creates a Writer for w. Color is used only when w is a terminal
// and noColor is false.
func NewWriter(w io.Writer, noColor bool) *Writer {
	return &Writer{w: w, useColor: !noColor && isTerminal(w)}
}

// Write prints the alert and its details.
func (aw *Writer) Write(alert *Alert) error {
	line := alert.String()
	if aw.useColor {
		line = alert.Level.Color() + line + ResetColor()
	}
	if _, err := fmt.Fprintln(aw.w, line); err != nil {
		return err
	}
	for _, detail := range alert.Details {
		if _, err := fmt.Fprintf(aw.w, "   %s\n", detail); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
