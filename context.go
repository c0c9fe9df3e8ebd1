package gogit2

import (
	"log/slog"
	"sync/atomic"

	"github.com/bigfatbrowncat/gogit2/engine"
	"github.com/bigfatbrowncat/gogit2/errors"
)

// Context is the engine lifetime guard. The engine is initialized while at
// least one Context is open.
//
// Context satisfies strarray.Engine and git.Engine and is the handle passed to
// those packages.
type Context struct {
	lib    *engine.Library
	logger *slog.Logger
	closed atomic.Bool
}

// NewContext initializes the engine and returns a guard for it.
//
// Configured engine options are installed as part of initialization. They
// are shared by every guard of the engine, so they are refused while another
// guard holds it open with different options. A missing or invalid config
// file, invalid or conflicting options, or a failed initialization return an
// error with CodeInitFailed; the engine is left untouched in that case.
func NewContext(opts ...Option) (*Context, error) {
	o := options{
		lib: engine.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = o.lib.Logger()
	}

	var engineOpts *engine.Options
	if o.configFile != "" {
		loaded, err := engine.LoadOptionsFile(o.configFile)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInitFailed, "failed to load engine config")
		}
		engineOpts = &loaded
	}
	if o.engineOptions != nil {
		engineOpts = o.engineOptions
	}

	var (
		count int
		err   error
	)
	if engineOpts != nil {
		count, err = o.lib.InitWithOptions(*engineOpts)
	} else {
		count, err = o.lib.Init()
	}
	if err != nil {
		return nil, err
	}

	o.logger.Debug("engine context opened", "init_count", count)
	return &Context{lib: o.lib, logger: o.logger}, nil
}

// Close releases this guard's hold on the engine. Closing an already closed
// Context returns nil. If the engine was shut down behind the guard's back,
// Close returns CodeShutdownFailed.
func (c *Context) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	remaining, err := c.lib.Shutdown()
	if err != nil {
		return err
	}

	c.logger.Debug("engine context closed", "init_count", remaining)
	return nil
}

// Closed reports whether Close has been called.
func (c *Context) Closed() bool {
	return c.closed.Load()
}

// Library returns the engine instance this guard holds open.
func (c *Context) Library() *engine.Library {
	return c.lib
}

// Initialized reports whether the guard is open and the engine initialized.
func (c *Context) Initialized() bool {
	return !c.closed.Load() && c.lib.Initialized()
}

// Options returns the engine options.
func (c *Context) Options() engine.Options {
	return c.lib.Options()
}

// Logger returns the guard's logger, which repository operations run
// through this Context also use.
func (c *Context) Logger() *slog.Logger {
	return c.logger
}

// Malloc allocates from the engine allocator.
func (c *Context) Malloc(size int) []byte {
	return c.lib.Malloc(size)
}

// StrArrayCopy duplicates src into dst through the engine. It fails with
// CodeNotInitialized once the guard is closed.
func (c *Context) StrArrayCopy(dst, src *engine.StrArray) error {
	if !c.Initialized() {
		return errors.New(errors.CodeNotInitialized, "engine context is closed")
	}
	return c.lib.StrArrayCopy(dst, src)
}

// StrArrayFree releases arr through the engine. It works on closed guards.
func (c *Context) StrArrayFree(arr *engine.StrArray) {
	c.lib.StrArrayFree(arr)
}
