package logger

import (
	"log/slog"
	"strconv"
)

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Domain records the store domain under the key "domain".
func Domain(name string) slog.Attr {
	return slog.String("domain", name)
}

// ItemKey records a blob, value or object key under the key "item_key".
// Keys are identifiers, never secrets, so they are safe to log.
func ItemKey(key string) slog.Attr {
	return slog.String("item_key", key)
}

// TypeFolder records the per-type object folder under the key "type_folder".
func TypeFolder(folder string) slog.Attr {
	return slog.String("type_folder", folder)
}

// Path records a sandbox-relative path under the key "path".
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// Operation records the store operation name under the key "op".
func Operation(name string) slog.Attr {
	return slog.String("op", name)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
