// Package logging provides the structured logger threaded through the
// validator and CLI, grounded on the pack's zap usage pattern rather than a
// hand-rolled logging shim.
package logging

import "go.uber.org/zap"

var global *zap.Logger = zap.NewNop()

// Set installs l as the package-level logger. Passing nil installs a no-op
// logger, matching the default before Set is ever called.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	global = l
}

// L returns the current package-level logger.
func L() *zap.Logger { return global }

// NewProduction builds a production zap.Logger (JSON, Info level) suitable
// for the CLI entrypoint.
func NewProduction() (*zap.Logger, error) {
	return zap.NewProduction()
}
