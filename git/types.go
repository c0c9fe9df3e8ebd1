package git

import (
	"log/slog"
	"time"

	"github.com/bigfatbrowncat/gogit2/engine"
	"github.com/bigfatbrowncat/gogit2/internal/gitcli"
	"github.com/bigfatbrowncat/gogit2/strarray"
	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Engine is the engine handle repository operations run against. It is
// satisfied by *gogit2.Context and *engine.Library.
//
// Operations fail with CodeNotInitialized while Initialized reports false.
type Engine interface {
	strarray.Engine
	Initialized() bool
	Options() engine.Options
	Logger() *slog.Logger
}

// Repository wraps a go-git repository opened through an Engine.
// It keeps the billy filesystems the repository lives on, providing escape
// hatches for advanced use cases.
type Repository struct {
	eng       Engine
	path      string
	repo      *gogit.Repository
	fs        billy.Filesystem // working tree, or the repository itself when bare
	dotgit    billy.Filesystem // administrative files (.git)
	memory    bool
	remoteOps RemoteOperations
	cli       gitcli.Runner
}

// Commit is a value type containing formatted commit information.
type Commit struct {
	Hash      string
	Author    string
	Email     string
	Message   string
	Timestamp time.Time
	raw       *object.Commit
}

// Auth is an interface for authentication methods.
// It is satisfied by go-git's transport.AuthMethod.
type Auth interface {
	// Marker interface - satisfied by go-git transport.AuthMethod
}

// BranchType selects local branches, remote-tracking branches, or both.
type BranchType int

const (
	BranchLocal BranchType = 1 << iota
	BranchRemote
	BranchAll = BranchLocal | BranchRemote
)

// FetchOptions configures Fetch.
type FetchOptions struct {
	Auth  Auth
	Depth int  // For deepening shallow clones
	Tags  bool // Fetch all tags, not only those reachable from fetched refs
	Force bool
}

// PushOptions configures Push.
type PushOptions struct {
	Auth  Auth
	Force bool
}

// CommitOptions configures commit creation.
type CommitOptions struct {
	Author     string
	Email      string
	Message    string
	AllowEmpty bool
	When       time.Time // Zero means now
}

// WorktreeOptions configures AddWorktree.
type WorktreeOptions struct {
	CreateBranch string // Create a new branch with this name when adding worktree
	Force        bool   // Force creation even if worktree path already exists
	Detach       bool   // Detach HEAD at named commit
	Lock         bool   // Lock the new worktree
}

// RepositoryOption configures repository creation operations (Init, Open, Clone).
type RepositoryOption func(*repositoryOptions)

type repositoryOptions struct {
	fs            billy.Filesystem
	remoteOps     RemoteOperations
	cli           gitcli.Runner
	bare          bool
	auth          Auth
	depth         int
	singleBranch  bool
	referenceName plumbing.ReferenceName
}

// WithFilesystem sets the billy filesystem the repository path is resolved
// on. It defaults to the OS filesystem.
//
// Example:
//
//	repo, err := git.Init(eng, "/repo", git.WithFilesystem(memfs.New()))
func WithFilesystem(fs billy.Filesystem) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.fs = fs
	}
}

// WithRemoteOperations replaces the go-git network operations used by Clone,
// Fetch and Push. It is primarily useful for testing.
func WithRemoteOperations(ops RemoteOperations) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.remoteOps = ops
	}
}

// WithCLIRunner replaces the git CLI runner used for linked worktrees.
func WithCLIRunner(runner gitcli.Runner) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.cli = runner
	}
}

// WithBare creates a bare repository (no working tree).
// Only applicable to Init and Clone.
func WithBare() RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.bare = true
	}
}

// WithAuth sets authentication for Clone.
//
// Example:
//
//	auth, _ := git.SSHKeyFile("git", "~/.ssh/id_rsa")
//	repo, err := git.Clone(ctx, eng, "git@github.com:org/repo.git", "/src/repo", git.WithAuth(auth))
func WithAuth(auth Auth) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.auth = auth
	}
}

// WithDepth sets the depth for shallow clones.
// A depth of 0 (default) performs a full clone.
func WithDepth(depth int) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.depth = depth
	}
}

// WithSingleBranch limits the clone to a single branch.
func WithSingleBranch() RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.singleBranch = true
	}
}

// WithReferenceName sets the branch or tag to clone.
func WithReferenceName(ref plumbing.ReferenceName) RepositoryOption {
	return func(opts *repositoryOptions) {
		opts.referenceName = ref
	}
}
