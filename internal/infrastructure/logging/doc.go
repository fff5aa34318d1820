// Package logging wraps uber/zap for xhost.
//
// Production output is JSON; development output is colored console text.
// Entries go to stderr unless Config.Output says otherwise, so CLI results
// on stdout stay clean.
//
//	logger, _ := logging.New(logging.Config{Level: "info"})
//	lib := logger.Named("loader").ForLibrary("examples.xlib")
//	lib.Warn("Dispose failed", zap.String("package", id), zap.Error(err))
package logging
