// Package logger builds configured log/slog loggers for the quota services.
//
// The factory produces text or JSON handlers with optional static attributes
// and context extractors. Extractors let request-scoped values (client IP,
// user ID) appear on every record without each call site passing them
// explicitly:
//
//	log := logger.New(
//		logger.WithProduction("quota"),
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			if ip := clientip.FromContext(ctx); ip != "" {
//				return logger.ClientIP(ip), true
//			}
//			return slog.Attr{}, false
//		}),
//	)
//
// Typed attribute helpers (Error, UserID, ClientIP, Tier, Month) keep
// attribute keys consistent across services.
package logger
