package download

import (
	"github.com/handiism/tunegrab/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the lowercase level name.
func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// ProgressEvent represents a download progress update.
//
// Outcome is set exactly once per track, on the event announcing that the
// track reached its terminal state.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
	Outcome *model.Outcome
}
