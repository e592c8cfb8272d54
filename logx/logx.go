// Package logx wraps zap for the builder's cold-path diagnostics: one
// line per driver level, a build summary, and cmd/buildtree's failure
// report. Storage growth is not logged. It replaces
// the teacher's hand-rolled debug.DropMessage with a real structured
// logger, grounded on bluesky-social-indigo's zap wiring
// (util/cliutil/ipfslog.go), while keeping the teacher's own rule that
// this logger is never touched from the split kernel's hot loop.
package logx

import "go.uber.org/zap"

// Logger is a *zap.SugaredLogger alias so callers don't need to import
// zap themselves just to pass one around.
type Logger = zap.SugaredLogger

// New returns a production zap logger suitable for the Driver's cold
// path. Falls back to a no-op logger if zap's own setup fails — logging
// failures must never turn into build failures.
func New() *Logger {
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// Nop returns a logger that discards everything, for tests and for
// driver.Build calls that don't want any output.
func Nop() *Logger {
	return zap.NewNop().Sugar()
}
