package environment

import (
	"context"
	"log/slog"
)

// LogKey names the environment attribute in log records.
const LogKey = "env"

// LogAttr returns the environment carried by ctx as a log attribute.
// It matches logger.ContextExtractor and reports false when ctx has none.
func LogAttr(ctx context.Context) (slog.Attr, bool) {
	env := FromContext(ctx)
	if env == "" {
		return slog.Attr{}, false
	}
	return slog.String(LogKey, string(env)), true
}
