// Package testutil provides in-memory testing utilities for the git package.
// It includes helpers for creating engines, in-memory repositories and test
// data, enabling tests to run quickly without external dependencies.
package testutil

import (
	"path"
	"testing"
	"time"

	"github.com/bigfatbrowncat/gogit2/engine"
	"github.com/bigfatbrowncat/gogit2/git"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
)

// NewEngine returns an initialized engine whose allocations are tracked. It
// searches no config paths, so the host's git config is ignored. The engine
// is shut down when the test finishes.
//
// Example:
//
//	eng, alloc := testutil.NewEngine(t)
//	repo, fs, err := testutil.NewMemoryRepo(eng)
//	...
//	assert.Zero(t, alloc.Stats().Live)
func NewEngine(tb testing.TB) (*engine.Library, *engine.TrackingAllocator) {
	tb.Helper()

	opts := engine.DefaultOptions()
	opts.SearchPaths = nil

	alloc := engine.NewTrackingAllocator()
	eng := engine.NewLibrary(engine.WithAllocator(alloc), engine.WithOptions(opts))
	if _, err := eng.Init(); err != nil {
		tb.Fatalf("failed to initialize engine: %v", err)
	}
	tb.Cleanup(func() {
		_, _ = eng.Shutdown()
	})
	return eng, alloc
}

// NewMemoryRepo creates a new in-memory Git repository for testing.
// It uses billy's memory filesystem (memfs) to provide a fully functional
// repository without touching the actual filesystem.
//
// The returned filesystem is the repository's working tree; the
// administrative files live under ".git" on it.
//
// Example:
//
//	repo, fs, err := testutil.NewMemoryRepo(eng)
//	if err != nil {
//	    t.Fatal(err)
//	}
func NewMemoryRepo(eng git.Engine) (*git.Repository, billy.Filesystem, error) {
	fs := memfs.New()

	repo, err := git.Init(eng, "/", git.WithFilesystem(fs))
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from git package are already wrapped
		return nil, nil, err
	}

	return repo, fs, nil
}

// CreateTestCommit creates an empty commit with the standard test author and
// the provided message, returning its hash.
func CreateTestCommit(repo *git.Repository, message string) (string, error) {
	//nolint:wrapcheck // Test utility - errors from git package are already wrapped
	return repo.CreateCommit(git.CommitOptions{
		Author:     TestAuthor,
		Email:      TestEmail,
		Message:    message,
		AllowEmpty: true,
	})
}

// CreateTestCommitWithTimestamp creates an empty commit dated timestamp.
func CreateTestCommitWithTimestamp(repo *git.Repository, message string, timestamp time.Time) (string, error) {
	//nolint:wrapcheck // Test utility - errors from git package are already wrapped
	return repo.CreateCommit(git.CommitOptions{
		Author:     TestAuthor,
		Email:      TestEmail,
		Message:    message,
		AllowEmpty: true,
		When:       timestamp,
	})
}

// CreateTestFile writes content to path in fs, creating parent directories
// and truncating an existing file.
func CreateTestFile(fs billy.Filesystem, path, content string) error {
	file, err := fs.Create(path)
	if err != nil {
		//nolint:wrapcheck // Test utility - simple file operation error
		return err
	}
	defer func() {
		_ = file.Close()
	}()

	_, err = file.Write([]byte(content))
	//nolint:wrapcheck // Test utility - simple file operation error
	return err
}

// CreateTestCommitWithFile writes a file, stages it and commits it.
//
// Example:
//
//	hash, err := testutil.CreateTestCommitWithFile(
//	    repo, fs, "README.md", "# Test", "Add README")
func CreateTestCommitWithFile(repo *git.Repository, fs billy.Filesystem, path, content, message string) (string, error) {
	if err := CreateTestFile(fs, path, content); err != nil {
		return "", err
	}

	wt, err := repo.Underlying().Worktree()
	if err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}
	if _, err := wt.Add(path); err != nil {
		//nolint:wrapcheck // Test utility - errors from go-git are transparent
		return "", err
	}

	//nolint:wrapcheck // Test utility - errors from git package are already wrapped
	return repo.CreateCommit(git.CommitOptions{
		Author:  TestAuthor,
		Email:   TestEmail,
		Message: message,
	})
}

// CreateTestTag creates a tag at ref. An empty message creates a lightweight
// tag, otherwise an annotated one.
func CreateTestTag(repo *git.Repository, name, ref, message string) error {
	if message == "" {
		//nolint:wrapcheck // Test utility - errors from git package are already wrapped
		return repo.CreateLightweightTag(name, ref)
	}
	//nolint:wrapcheck // Test utility - errors from git package are already wrapped
	return repo.CreateTag(name, ref, message)
}

// CreateTestWorktree writes the administrative files git keeps for a linked
// worktree called name under .git/worktrees on fs, as "git worktree add"
// would. It lets worktree listing be tested without the git CLI.
func CreateTestWorktree(fs billy.Filesystem, name string) error {
	dir := path.Join(".git", "worktrees", name)
	files := map[string]string{
		"gitdir":    path.Join("/worktrees", name, ".git") + "\n",
		"commondir": "../..\n",
		"HEAD":      "ref: refs/heads/" + name + "\n",
	}
	for file, content := range files {
		if err := CreateTestFile(fs, path.Join(dir, file), content); err != nil {
			return err
		}
	}
	return nil
}

// LockTestWorktree marks the worktree created by CreateTestWorktree as
// locked with the given reason.
func LockTestWorktree(fs billy.Filesystem, name, reason string) error {
	return CreateTestFile(fs, path.Join(".git", "worktrees", name, "locked"), reason)
}
