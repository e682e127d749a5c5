package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

// Format selects the output encoding of the application logger.
type Format string

const (
	// FormatAuto picks tint for interactive terminals and JSON otherwise.
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New creates a configured application logger.
// It writes to Stderr (to separate from Stdout flow UI/JSON output).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, format Format) *slog.Logger {
	if format == FormatAuto {
		if term.IsTerminal(int(os.Stderr.Fd())) {
			format = FormatText
		} else {
			format = FormatJSON
		}
	}

	switch format {
	case FormatText:
		return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level: level,
		}))
	default:
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				// Standardize 'error' key to 'err'
				if a.Key == "error" {
					a.Key = "err"
				}
				return a
			},
		}))
	}
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
