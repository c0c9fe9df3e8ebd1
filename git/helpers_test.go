package git

import (
	"testing"

	"github.com/bigfatbrowncat/gogit2/engine"
	"github.com/bigfatbrowncat/gogit2/strarray"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"
)

const (
	testAuthor = "Test User"
	testEmail  = "test@example.com"
)

// newTestEngine returns an initialized engine with a tracking allocator and no
// config search paths, so the host's git config never leaks into a test.
// Later options override those defaults. It is shut down when the test ends.
func newTestEngine(t *testing.T, opts ...engine.LibraryOption) (*engine.Library, *engine.TrackingAllocator) {
	t.Helper()

	isolated := engine.DefaultOptions()
	isolated.SearchPaths = nil

	alloc := engine.NewTrackingAllocator()
	eng := engine.NewLibrary(append([]engine.LibraryOption{
		engine.WithAllocator(alloc),
		engine.WithOptions(isolated),
	}, opts...)...)
	_, err := eng.Init()
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = eng.Shutdown()
	})
	return eng, alloc
}

// newMemoryRepo initializes a repository at the root of a fresh memory
// filesystem.
func newMemoryRepo(t *testing.T, opts ...RepositoryOption) (*Repository, billy.Filesystem) {
	t.Helper()

	eng, _ := newTestEngine(t)
	fs := memfs.New()
	repo, err := Init(eng, "/", append([]RepositoryOption{WithFilesystem(fs)}, opts...)...)
	require.NoError(t, err)
	return repo, fs
}

func writeFile(t *testing.T, fs billy.Filesystem, path, content string) {
	t.Helper()

	f, err := fs.Create(path)
	require.NoError(t, err)
	_, err = f.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func emptyCommit(t *testing.T, repo *Repository, message string) string {
	t.Helper()

	hash, err := repo.CreateCommit(CommitOptions{
		Author:     testAuthor,
		Email:      testEmail,
		Message:    message,
		AllowEmpty: true,
	})
	require.NoError(t, err)
	return hash
}

// commitFile writes, stages and commits a single file.
func commitFile(t *testing.T, repo *Repository, fs billy.Filesystem, path, content, message string) string {
	t.Helper()

	writeFile(t, fs, path, content)
	wt, err := repo.Underlying().Worktree()
	require.NoError(t, err)
	_, err = wt.Add(path)
	require.NoError(t, err)

	hash, err := repo.CreateCommit(CommitOptions{
		Author:  testAuthor,
		Email:   testEmail,
		Message: message,
	})
	require.NoError(t, err)
	return hash
}

// strs allocates a string array on the repository's engine, closed at the
// end of the test.
func strs(t *testing.T, repo *Repository, values ...string) *strarray.StrArray {
	t.Helper()

	arr, err := strarray.Alloc(repo.eng, values)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = arr.Close()
	})
	return arr
}

// names unwraps a string array result, closing the array.
func names(t *testing.T, arr *strarray.StrArray, err error) []string {
	t.Helper()

	require.NoError(t, err)
	defer func() {
		_ = arr.Close()
	}()
	return arr.Slice()
}
