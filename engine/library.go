package engine

import (
	"log/slog"
	"sync"

	"github.com/bigfatbrowncat/gogit2/errors"
)

// Library holds the engine's global state: the initialization count, the
// allocator, the options and the logger.
type Library struct {
	mu        sync.Mutex
	initCount int
	options   Options
	alloc     Allocator
	logger    *slog.Logger
	version   VersionSource
}

// LibraryOption configures a Library created by NewLibrary.
type LibraryOption func(*Library)

// WithAllocator replaces the default TrackingAllocator.
func WithAllocator(alloc Allocator) LibraryOption {
	return func(l *Library) {
		l.alloc = alloc
	}
}

// WithLogger sets the logger used for lifecycle and memory events.
func WithLogger(logger *slog.Logger) LibraryOption {
	return func(l *Library) {
		l.logger = logger
	}
}

// WithVersionSource replaces the source of the engine version string.
func WithVersionSource(source VersionSource) LibraryOption {
	return func(l *Library) {
		l.version = source
	}
}

// WithOptions sets the initial options. They are validated by Init, not here.
func WithOptions(opts Options) LibraryOption {
	return func(l *Library) {
		l.options = opts.clone()
	}
}

// NewLibrary creates an uninitialized Library with its own state.
func NewLibrary(opts ...LibraryOption) *Library {
	l := &Library{
		options: DefaultOptions(),
		alloc:   NewTrackingAllocator(),
		logger:  slog.New(slog.DiscardHandler),
		version: BuildInfoVersion,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var (
	defaultOnce    sync.Once
	defaultLibrary *Library
)

// Default returns the process-wide Library.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLibrary = NewLibrary()
	})
	return defaultLibrary
}

// Init initializes the engine and returns the number of outstanding
// initializations, including this one.
//
// The first Init validates the options; invalid options fail with
// CodeInitFailed and leave the count unchanged.
func (l *Library) Init() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initCount == 0 {
		if err := l.options.Validate(); err != nil {
			return 0, errors.Wrap(err, errors.CodeInitFailed, "failed to initialize engine")
		}
	}

	l.initCount++
	l.logger.Debug("engine initialized", "count", l.initCount)
	return l.initCount, nil
}

// InitWithOptions installs opts and initializes the engine in one step.
//
// Options are shared by every holder of the engine, so they can only change
// while it is not initialized. If the engine is already running with
// different options the call fails with CodeInitFailed and nothing changes;
// identical options just add an initialization.
func (l *Library) InitWithOptions(opts Options) (int, error) {
	if err := opts.Validate(); err != nil {
		return 0, errors.Wrap(err, errors.CodeInitFailed, "failed to initialize engine")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initCount > 0 && !l.options.Equal(opts) {
		return 0, errors.WithContext(
			errors.New(errors.CodeInitFailed, "engine is already initialized with different options"),
			"init_count", l.initCount,
		)
	}

	l.options = opts.clone()
	l.initCount++
	l.logger.Debug("engine initialized", "count", l.initCount,
		"object_cache_limit", int64(opts.ObjectCacheLimit),
		"network_timeout", opts.NetworkTimeout,
		"default_remote", opts.DefaultRemote,
	)
	return l.initCount, nil
}

// Shutdown releases one initialization and returns the number still
// outstanding. Shutting down an engine that is not initialized fails with
// CodeShutdownFailed.
func (l *Library) Shutdown() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.initCount == 0 {
		return 0, errors.New(errors.CodeShutdownFailed, "engine is not initialized")
	}

	l.initCount--
	l.logger.Debug("engine shut down", "remaining", l.initCount)
	return l.initCount, nil
}

// Initialized reports whether at least one Init is outstanding.
func (l *Library) Initialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.initCount > 0
}

// Options returns a copy of the current options.
func (l *Library) Options() Options {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.options.clone()
}

// SetOptions validates and installs opts. Invalid options fail with
// CodeInvalidConfig and leave the current options in place.
func (l *Library) SetOptions(opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.options = opts.clone()
	l.logger.Debug("engine options updated",
		"object_cache_limit", int64(opts.ObjectCacheLimit),
		"network_timeout", opts.NetworkTimeout,
		"default_remote", opts.DefaultRemote,
	)
	return nil
}

// Logger returns the library logger.
func (l *Library) Logger() *slog.Logger {
	return l.logger
}

// Allocator returns the library allocator.
func (l *Library) Allocator() Allocator {
	return l.alloc
}
