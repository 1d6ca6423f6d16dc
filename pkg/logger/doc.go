// Package logger builds the *slog.Logger used by every securestore component
// and names the attributes they share.
//
// New returns a logger whose handler is a ContextHandler over slog's text or
// JSON handler. The ContextHandler appends attributes produced by registered
// ContextExtractor callbacks and masks attributes that may carry key material:
// any key listed in DefaultRedactedKeys or added with WithRedactedKeys is
// written as Redacted, including keys nested in groups.
//
// Attribute constructors (Domain, ItemKey, TypeFolder, Path, Operation,
// Component, Error, Errors) keep attribute names identical across stores.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Development, "vault-cli"),
//	    logger.WithContextExtractors(environment.LogAttr),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "blob saved", logger.Domain("billing"), logger.ItemKey("token"))
//
// WithEnvironment selects text output at debug level in development and JSON
// at info level otherwise, and tags every record with "app" and "env".
//
// # Error Handling
//
// Error and Errors return an empty attribute for nil errors, which slog
// drops, so callers never need a nil check. WithFormat panics on an unknown
// format. Discard returns a logger that drops every record.
package logger
