package git

import (
	"context"
	"path/filepath"

	"github.com/bigfatbrowncat/gogit2/internal/gitcli"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Init creates a new Git repository at path.
//
// By default, Init creates a standard (non-bare) repository on the OS
// filesystem. Use WithBare for a bare repository and WithFilesystem to place
// it on another billy filesystem.
//
// Returns CodeNotInitialized if eng is not initialized and CodeAlreadyExists
// if a repository already exists at path.
//
// Examples:
//
//	repo, err := git.Init(eng, "/path/to/repo")
//
//	// In memory
//	repo, err := git.Init(eng, "/repo", git.WithFilesystem(memfs.New()))
func Init(eng Engine, path string, opts ...RepositoryOption) (*Repository, error) {
	if err := checkEngine(eng); err != nil {
		return nil, err
	}

	options, path, err := resolveOptions(path, opts)
	if err != nil {
		return nil, err
	}

	if err := options.fs.MkdirAll(path, 0o755); err != nil {
		return nil, wrapError(err, "failed to create repository directory")
	}

	r, err := newRepository(eng, path, options, !options.bare)
	if err != nil {
		return nil, err
	}

	var worktree billy.Filesystem
	if !options.bare {
		worktree = r.fs
	}

	repo, err := gogit.Init(r.storage(), worktree)
	if err != nil {
		return nil, wrapError(err, "failed to initialize repository")
	}
	r.repo = repo

	eng.Logger().Debug("repository initialized", "path", path, "bare", options.bare)
	return r, nil
}

// Open opens an existing Git repository at path. Both standard repositories
// (with a .git directory) and bare repositories are recognized.
//
// Returns CodeNotFound if no repository exists at path.
func Open(eng Engine, path string, opts ...RepositoryOption) (*Repository, error) {
	if err := checkEngine(eng); err != nil {
		return nil, err
	}

	options, path, err := resolveOptions(path, opts)
	if err != nil {
		return nil, err
	}

	scoped, err := options.fs.Chroot(path)
	if err != nil {
		return nil, wrapError(err, "failed to scope filesystem to path")
	}
	stat, statErr := scoped.Stat(gogit.GitDirName)
	standard := statErr == nil && stat.IsDir()

	r, err := newRepository(eng, path, options, standard)
	if err != nil {
		return nil, err
	}

	var worktree billy.Filesystem
	if standard {
		worktree = r.fs
	}

	repo, err := gogit.Open(r.storage(), worktree)
	if err != nil {
		return nil, wrapError(err, "failed to open repository")
	}
	r.repo = repo

	return r, nil
}

// Clone clones the repository at url into path.
//
// Network access goes through the RemoteOperations set with
// WithRemoteOperations, defaulting to go-git. When ctx has no deadline the
// engine's network timeout applies.
//
// Returns CodeNotFound if the remote repository doesn't exist, CodeUnauthorized
// for authentication failures, or CodeNetwork for transport errors.
//
// Examples:
//
//	repo, err := git.Clone(ctx, eng, "https://github.com/org/repo", "/src/repo")
//
//	// Shallow clone (depth=1)
//	repo, err := git.Clone(ctx, eng, "https://github.com/org/repo", "/src/repo",
//	    git.WithDepth(1),
//	    git.WithSingleBranch())
func Clone(ctx context.Context, eng Engine, url, path string, opts ...RepositoryOption) (*Repository, error) {
	if err := checkEngine(eng); err != nil {
		return nil, err
	}
	if url == "" {
		return nil, invalidInput("URL is required", "failed to clone repository")
	}

	options, path, err := resolveOptions(path, opts)
	if err != nil {
		return nil, err
	}

	if err := options.fs.MkdirAll(path, 0o755); err != nil {
		return nil, wrapError(err, "failed to create clone directory")
	}

	r, err := newRepository(eng, path, options, !options.bare)
	if err != nil {
		return nil, err
	}

	cloneOpts := &gogit.CloneOptions{
		URL:           url,
		Depth:         options.depth,
		SingleBranch:  options.singleBranch,
		ReferenceName: options.referenceName,
	}
	if cloneOpts.Auth, err = toAuthMethod(options.auth); err != nil {
		return nil, err
	}

	var worktree billy.Filesystem
	if !options.bare {
		worktree = r.fs
	}

	ctx, cancel := r.networkContext(ctx)
	defer cancel()

	repo, err := r.remoteOps.Clone(ctx, r.storage(), worktree, cloneOpts)
	if err != nil {
		return nil, wrapNetworkError(err, "failed to clone repository")
	}
	r.repo = repo

	eng.Logger().Debug("repository cloned", "url", url, "path", path)
	return r, nil
}

func resolveOptions(path string, opts []RepositoryOption) (*repositoryOptions, string, error) {
	options := &repositoryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.fs == nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, "", wrapError(err, "failed to resolve repository path")
		}
		path = abs
		options.fs = osfs.New("/")
	}
	if options.remoteOps == nil {
		options.remoteOps = &defaultRemoteOps{}
	}
	if options.cli == nil {
		options.cli = gitcli.New()
	}
	return options, path, nil
}

// newRepository scopes the filesystems for path. With a work tree the
// administrative files live in .git, otherwise in path itself.
func newRepository(eng Engine, path string, options *repositoryOptions, withWorktree bool) (*Repository, error) {
	scoped, err := options.fs.Chroot(path)
	if err != nil {
		return nil, wrapError(err, "failed to scope filesystem to path")
	}

	dotgit := scoped
	if withWorktree {
		if dotgit, err = scoped.Chroot(gogit.GitDirName); err != nil {
			return nil, wrapError(err, "failed to create .git filesystem")
		}
	}

	return &Repository{
		eng:       eng,
		path:      path,
		fs:        scoped,
		dotgit:    dotgit,
		memory:    isMemoryFilesystem(options.fs),
		remoteOps: options.remoteOps,
		cli:       options.cli,
	}, nil
}

// storage creates object storage on the administrative filesystem, bounded by
// the engine's object cache limit.
func (r *Repository) storage() *filesystem.Storage {
	limit := r.eng.Options().ObjectCacheLimit
	return filesystem.NewStorage(r.dotgit, cache.NewObjectLRU(cache.FileSize(limit)))
}

// networkContext applies the engine's network timeout when ctx has no
// deadline of its own.
func (r *Repository) networkContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := r.eng.Options().NetworkTimeout
	if _, ok := ctx.Deadline(); ok || timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// check fails with CodeNotInitialized once the engine has been shut down.
func (r *Repository) check() error {
	return checkEngine(r.eng)
}

// Underlying returns the underlying go-git Repository for advanced operations
// not covered by this wrapper.
func (r *Repository) Underlying() *gogit.Repository {
	return r.repo
}

// Filesystem returns the repository's working tree filesystem, or the
// repository directory for bare repositories.
func (r *Repository) Filesystem() billy.Filesystem {
	return r.fs
}

// Path returns the repository path on its filesystem.
func (r *Repository) Path() string {
	return r.path
}

// IsBare reports whether the repository has no working tree.
func (r *Repository) IsBare() bool {
	return r.fs == r.dotgit
}
