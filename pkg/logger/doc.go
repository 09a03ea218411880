// Package logger builds *slog.Logger instances from functional options and
// provides attribute helpers that keep key names consistent across packages.
//
// New picks a text or JSON handler, applies static attributes, and, when
// context extractors are registered, wraps the handler so that values
// stored in a context.Context are added to every record logged with it.
//
// # Usage
//
//	log := logger.New(
//		logger.WithDevelopment("verifyjson"),
//		logger.WithContextValue("run_id", runIDKey{}),
//	)
//	log.InfoContext(ctx, "document checked",
//		logger.File(name),
//		logger.Violations(out.Len()),
//	)
//
// Settings can come from the environment through Config (LOG_LEVEL,
// LOG_FORMAT) and WithConfig.
//
// Error and Errors return an empty attribute for nil errors, so they can be
// passed unconditionally.
//
// Libraries that accept an optional logger fall back to Discard.
package logger
