package gogit2

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/bigfatbrowncat/gogit2/engine"
	"github.com/bigfatbrowncat/gogit2/errors"
	"github.com/bigfatbrowncat/gogit2/git"
	"github.com/bigfatbrowncat/gogit2/strarray"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, opts ...Option) (*Context, *engine.Library, *engine.TrackingAllocator) {
	t.Helper()

	alloc := engine.NewTrackingAllocator()
	lib := engine.NewLibrary(engine.WithAllocator(alloc))

	ctx, err := NewContext(append([]Option{WithLibrary(lib)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = ctx.Close()
	})
	return ctx, lib, alloc
}

func TestNewContext(t *testing.T) {
	ctx, lib, _ := newTestContext(t)

	assert.True(t, lib.Initialized())
	assert.True(t, ctx.Initialized())
	assert.Same(t, lib, ctx.Library())

	require.NoError(t, ctx.Close())
	assert.True(t, ctx.Closed())
	assert.False(t, ctx.Initialized())
	assert.False(t, lib.Initialized())

	assert.NoError(t, ctx.Close(), "second close is a no-op")
}

func TestNewContext_Default(t *testing.T) {
	ctx, err := NewContext()
	require.NoError(t, err)
	assert.Same(t, engine.Default(), ctx.Library())
	assert.True(t, engine.Default().Initialized())
	require.NoError(t, ctx.Close())
}

func TestContext_MultipleGuards(t *testing.T) {
	lib := engine.NewLibrary()

	first, err := NewContext(WithLibrary(lib))
	require.NoError(t, err)
	second, err := NewContext(WithLibrary(lib))
	require.NoError(t, err)

	require.NoError(t, first.Close())
	assert.True(t, lib.Initialized(), "engine must stay up while a guard is open")
	assert.True(t, second.Initialized())
	assert.False(t, first.Initialized())

	require.NoError(t, second.Close())
	assert.False(t, lib.Initialized())
}

func TestContext_CloseAfterExternalShutdown(t *testing.T) {
	ctx, lib, _ := newTestContext(t)

	_, err := lib.Shutdown()
	require.NoError(t, err)

	err = ctx.Close()
	require.Error(t, err)
	assert.Equal(t, errors.CodeShutdownFailed, errors.GetCode(err))
}

func TestContext_ClosedRefusesCopy(t *testing.T) {
	ctx, _, alloc := newTestContext(t)

	arr := strarray.FromSlice(ctx, []string{"refs/heads/main"})
	require.NoError(t, ctx.Close())

	dup, err := arr.Copy()
	require.Error(t, err)
	assert.Nil(t, dup)
	assert.Equal(t, errors.CodeNotInitialized, errors.GetCode(err))

	_, err = strarray.New(ctx).Assign(arr)
	assert.Equal(t, errors.CodeNotInitialized, errors.GetCode(err))

	// Releasing still works after the guard is gone.
	require.NoError(t, arr.Close())
	assert.Equal(t, 0, alloc.Stats().Live)
}

func TestContext_StringArrayRoundTrip(t *testing.T) {
	ctx, _, alloc := newTestContext(t)

	arr := strarray.FromSlice(ctx, []string{"refs/heads/main", "refs/tags/v1"})
	assert.Equal(t, []string{"refs/heads/main", "refs/tags/v1"}, arr.Slice())

	dup, err := arr.Copy()
	require.NoError(t, err)
	require.NoError(t, arr.Close())
	assert.Equal(t, []string{"refs/heads/main", "refs/tags/v1"}, dup.Slice())
	require.NoError(t, dup.Close())

	assert.Equal(t, 0, alloc.Stats().Live)
}

func TestNewContext_InvalidOptions(t *testing.T) {
	lib := engine.NewLibrary()
	opts := engine.DefaultOptions()
	opts.DefaultRemote = ""

	ctx, err := NewContext(WithLibrary(lib), WithEngineOptions(opts))
	require.Error(t, err)
	assert.Nil(t, ctx)
	assert.Equal(t, errors.CodeInitFailed, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeInvalidConfig))
	assert.False(t, lib.Initialized())
}

func TestNewContext_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_remote: upstream\nobject_cache_limit: 8MiB\n"), 0o600))

	t.Run("loaded", func(t *testing.T) {
		ctx, lib, _ := newTestContext(t, WithConfigFile(path))
		assert.Equal(t, "upstream", lib.Options().DefaultRemote)
		assert.Equal(t, 8*engine.MiB, ctx.Options().ObjectCacheLimit)
	})

	t.Run("overridden by explicit options", func(t *testing.T) {
		opts := engine.DefaultOptions()
		opts.DefaultRemote = "mirror"

		ctx, _, _ := newTestContext(t, WithConfigFile(path), WithEngineOptions(opts))
		assert.Equal(t, "mirror", ctx.Options().DefaultRemote)
	})

	t.Run("missing", func(t *testing.T) {
		lib := engine.NewLibrary()
		_, err := NewContext(WithLibrary(lib), WithConfigFile(filepath.Join(dir, "missing.yaml")))
		require.Error(t, err)
		assert.Equal(t, errors.CodeInitFailed, errors.GetCode(err))
		assert.False(t, lib.Initialized())
	})
}

func TestContext_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, _, _ := newTestContext(t, WithLogger(logger))
	require.NoError(t, ctx.Close())

	assert.Contains(t, buf.String(), "engine context opened")
	assert.Contains(t, buf.String(), "engine context closed")
	assert.Contains(t, buf.String(), "init_count=0")
}

func TestContext_Logger(t *testing.T) {
	t.Run("defaults to the engine logger", func(t *testing.T) {
		ctx, lib, _ := newTestContext(t)
		assert.Same(t, lib.Logger(), ctx.Logger())
	})

	t.Run("reaches repository operations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		ctx, _, _ := newTestContext(t, WithLogger(logger))
		assert.Same(t, logger, ctx.Logger())

		_, err := git.Init(ctx, "/repo", git.WithFilesystem(memfs.New()))
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "repository initialized")
	})
}

func TestNewContext_ConflictingOptions(t *testing.T) {
	first, lib, _ := newTestContext(t)

	mirror := engine.DefaultOptions()
	mirror.DefaultRemote = "mirror"

	ctx, err := NewContext(WithLibrary(lib), WithEngineOptions(mirror))
	require.Error(t, err)
	assert.Nil(t, ctx)
	assert.Equal(t, errors.CodeInitFailed, errors.GetCode(err))
	assert.Equal(t, "origin", first.Options().DefaultRemote)

	same, err := NewContext(WithLibrary(lib), WithEngineOptions(engine.DefaultOptions()))
	require.NoError(t, err)
	require.NoError(t, same.Close())
	assert.True(t, lib.Initialized())

	require.NoError(t, first.Close())
	assert.False(t, lib.Initialized())

	ctx, err = NewContext(WithLibrary(lib), WithEngineOptions(mirror))
	require.NoError(t, err)
	assert.Equal(t, "mirror", ctx.Options().DefaultRemote)
	require.NoError(t, ctx.Close())
}

func TestContext_Repository(t *testing.T) {
	ctx, _, alloc := newTestContext(t)

	repo, err := git.Init(ctx, "/repo", git.WithFilesystem(memfs.New()))
	require.NoError(t, err)
	_, err = repo.CreateCommit(git.CommitOptions{
		Author:     "Test User",
		Email:      "test@example.com",
		Message:    "Initial commit",
		AllowEmpty: true,
	})
	require.NoError(t, err)
	require.NoError(t, repo.CreateLightweightTag("v1.0.0", "HEAD"))

	refs, err := repo.ReferenceList()
	require.NoError(t, err)
	assert.Equal(t, []string{"refs/heads/master", "refs/tags/v1.0.0"}, refs.Slice())

	require.NoError(t, ctx.Close())

	_, err = repo.TagList()
	assert.True(t, errors.HasCode(err, errors.CodeNotInitialized))

	// Arrays obtained before the guard closed can still be released.
	require.NoError(t, refs.Close())
	assert.Zero(t, alloc.Stats().Live)
}
