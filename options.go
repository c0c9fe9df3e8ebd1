package gogit2

import (
	"log/slog"

	"github.com/bigfatbrowncat/gogit2/engine"
)

// Option configures a Context created by NewContext.
type Option func(*options)

type options struct {
	lib           *engine.Library
	logger        *slog.Logger
	configFile    string
	engineOptions *engine.Options
}

// WithLibrary binds the Context to lib instead of the process-wide engine.
//
// Example:
//
//	lib := engine.NewLibrary(engine.WithAllocator(engine.NewTrackingAllocator()))
//	ctx, err := gogit2.NewContext(gogit2.WithLibrary(lib))
func WithLibrary(lib *engine.Library) Option {
	return func(o *options) {
		o.lib = lib
	}
}

// WithLogger sets the logger for guard lifecycle events and for every
// operation that runs through the Context. The default is the engine's
// logger. Engine-internal events keep going to the logger set with
// engine.WithLogger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithConfigFile loads engine options from a YAML file before initializing.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFile = path
	}
}

// WithEngineOptions installs opts when initializing. When combined with
// WithConfigFile, these options replace the ones read from the file.
//
// Engine options are process-wide for the shared engine: NewContext fails
// with CodeInitFailed if another guard already holds the engine open with
// different options.
func WithEngineOptions(opts engine.Options) Option {
	return func(o *options) {
		o.engineOptions = &opts
	}
}
