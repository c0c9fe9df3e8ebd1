// Package git implements repository operations on top of the engine.
//
// Every operation runs against an Engine, which is satisfied by both
// *gogit2.Context and *engine.Library. Operations fail with
// CodeNotInitialized once the engine has been shut down, so a Repository
// never outlives the guard that opened it.
//
// Operations that produce several names (references, tags, branches,
// remotes, refspecs, worktrees, status paths) return a *strarray.StrArray
// allocated through the engine. The caller owns the array and must Close it.
// Operations that accept several names (refspecs, pathspecs) take one too; a
// nil array is treated as empty.
//
// # Repositories
//
// Init, Open and Clone create a Repository on a go-billy filesystem. The OS
// filesystem is used by default; WithFilesystem places the repository
// elsewhere, for example in memory:
//
//	eng := engine.NewLibrary()
//	if _, err := eng.Init(); err != nil {
//	    return err
//	}
//	defer eng.Shutdown()
//
//	repo, err := git.Init(eng, "/repo", git.WithFilesystem(memfs.New()))
//
// Objects are cached up to the engine's ObjectCacheLimit. Network operations
// without a deadline are bounded by NetworkTimeout.
//
// # Remotes
//
// CreateRemote, LookupRemote, RemoteList, DeleteRemote, AddFetchRefspec and
// AddPushRefspec edit the repository configuration. Fetch and Push accept an
// optional refspec array; an empty remote name selects the engine's default
// remote. Network calls go through RemoteOperations, which tests replace with
// WithRemoteOperations.
//
//	specs := strarray.FromSlice(eng, []string{"+refs/heads/main:refs/remotes/origin/main"})
//	defer specs.Close()
//
//	err := repo.Fetch(ctx, "origin", specs, git.FetchOptions{
//	    Auth: git.BasicAuth("user", token),
//	})
//
// # Linked Worktrees
//
// WorktreeList and WorktreeLocked read the administrative files directly and
// work on any filesystem. AddWorktree, RemoveWorktree, LockWorktree,
// UnlockWorktree and PruneWorktrees run the git CLI. They need git on PATH
// and a repository on the OS filesystem; memory repositories fail with
// CodeNotSupported.
//
// # Errors
//
// All errors are errors.GitError values from the gogit2 errors package.
// go-git sentinels are classified into codes and stay reachable through
// errors.Is:
//
//	err := repo.CreateBranch("main", "HEAD")
//	if errors.HasCode(err, errors.CodeAlreadyExists) {
//	    // branch exists
//	}
//
// # Escape Hatches
//
// Underlying returns the go-git repository and Filesystem the billy
// filesystem the repository lives on. Commit.Underlying returns the go-git
// commit object.
package git
