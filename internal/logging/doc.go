// Package logging builds the slog loggers used by rulink.
//
// Console output goes through [Handler], a compact colorized text handler
// that masks secrets. --log-format json switches to slog's JSON handler and
// --log-file adds a JSON copy of every record via [MultiHandler].
//
// # Levels
//
// The -v flag is counted and mapped by [LevelFromVerbosity]:
//
//	(none) warn
//	-v     info
//	-vv    debug
//	-vvv   trace
//
// # Context
//
// Commands put their logger on the context with [NewContext]; lower layers
// retrieve it with [FromContext], which never returns nil.
//
// # Testing
//
//	logger := logging.ForTest(t)
package logging
