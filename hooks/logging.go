// Package hooks provides ready-made resolution hooks for loom contexts.
package hooks

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/km-arc/loom"
)

// NewLogger creates a leveled logger with timestamp formatting suitable
// for resolution traces. Timestamps render as "HH:MM:SS.ms".
func NewLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Logging returns a hook that logs every resolution on logger: debug for
// successes, error for failures. Attach to a root context to trace the
// whole tree:
//
//	ctx.Use(hooks.Logging(hooks.NewLogger(os.Stderr, log.DebugLevel)))
func Logging(logger *log.Logger) loom.Hook {
	return loom.HookFunc(func(owner *loom.Context, q loom.Qualifier, d time.Duration, err error) {
		if err != nil {
			logger.Error("resolve failed",
				"qualifier", loom.FormatQualifier(q),
				"context", short(owner.ID()),
				"err", err,
			)
			return
		}
		logger.Debug("resolved",
			"qualifier", loom.FormatQualifier(q),
			"context", short(owner.ID()),
			"dur", d,
		)
	})
}

// short trims a uuid to its first group for log readability.
func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
