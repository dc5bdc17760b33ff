package alerts

import "github.com/agentstation/gradesync/internal/cmd/emoji"

// Level is the severity of an alert.
type Level int

// Levels, most severe first.
const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelSuccess
)

const resetColor = "\033[0m"

type style struct {
	name  string
	icon  string
	color string
}

var styles = map[Level]style{
	LevelError:   {"error", emoji.Error, "\033[31m"},
	LevelWarning: {"warning", emoji.Warning, "\033[33m"},
	LevelInfo:    {"info", emoji.Info, "\033[36m"},
	LevelSuccess: {"success", emoji.Success, "\033[32m"},
}

func (l Level) style() style {
	if s, ok := styles[l]; ok {
		return s
	}
	return style{"unknown", "?", resetColor}
}

func (l Level) String() string { return l.style().name }

// Icon is printed before the alert message.
func (l Level) Icon() string { return l.style().icon }

// Color is the ANSI sequence used on terminals.
func (l Level) Color() string { return l.style().color }

// ResetColor ends a colored line.
func ResetColor() string { return resetColor }
