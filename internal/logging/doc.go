// Package logging builds the slog logger and holds the attribute helpers
// shared by every package that logs.
//
// Logs always go to stderr; stdout belongs to the stdio transport.
//
//	logger, err := logging.New(os.Stderr, "debug", logging.FormatJSON)
//	logger.Info("task completed",
//	    logging.Operation("complete"),
//	    logging.TaskHash(title),
//	    logging.Duration(elapsed))
//
// Task titles never appear in clear text; TaskHash and AnonymizeText hash
// them. Scripts embed titles and notes, so they are only logged at debug
// level and always through Script, which truncates them.
//
// The script executor takes the small Logger interface, satisfied by
// SlogAdapter, rather than an *slog.Logger.
package logging
