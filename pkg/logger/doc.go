// Package logger builds the *slog.Logger shared by every component of the
// service.
//
// New returns a logger configured by functional options. The handler is
// either slog's JSON or text handler, wrapped by a decorator that runs
// registered ContextExtractor callbacks on each record so request-scoped
// values (request id, environment) appear without being passed explicitly.
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Development, "filehashd"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "hash computed", logger.Key(key), logger.Size(n))
//
// Attribute helpers (Key, Hash, Hits, Size, Duration, Error, ...) keep field
// names consistent across packages. Error and RequestID return an empty
// slog.Attr for nil input, which slog drops.
package logger
