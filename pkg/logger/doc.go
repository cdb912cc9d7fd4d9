// Package logger builds configured slog.Logger instances with environment
// presets, static attributes, and context-aware attribute extraction.
//
// The factory covers the common cases with one call:
//
//	log := logger.New(logger.WithProduction("notifykit"))
//	logger.SetAsDefault(log)
//
// Domain attribute helpers keep log keys consistent across packages:
//
//	log.Info("notification delivered",
//	    logger.NotificationID(n.ID),
//	    logger.RecipientID(n.RecipientID),
//	    logger.Channel("push"))
//
// Context extractors inject request-scoped values (recipient IDs, trace IDs)
// into every record without threading them through call sites.
package logger
