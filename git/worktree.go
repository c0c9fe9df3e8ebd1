package git

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	giterrors "github.com/bigfatbrowncat/gogit2/errors"
	"github.com/bigfatbrowncat/gogit2/internal/gitcli"
	"github.com/bigfatbrowncat/gogit2/strarray"
)

const worktreesDir = "worktrees"

// WorktreeList returns the names of the repository's linked worktrees,
// sorted. A worktree is listed when its administrative directory under
// .git/worktrees holds gitdir, commondir and HEAD files; partial leftovers
// are skipped.
//
// WorktreeList reads the repository filesystem directly and works on any
// billy filesystem.
func (r *Repository) WorktreeList() (*strarray.StrArray, error) {
	if err := r.check(); err != nil {
		return nil, err
	}

	entries, err := r.dotgit.ReadDir(worktreesDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, wrapError(err, "failed to read worktree directory")
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && r.isWorktreeDir(path.Join(worktreesDir, entry.Name())) {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return r.strings(names, "failed to list worktrees")
}

func (r *Repository) isWorktreeDir(dir string) bool {
	for _, file := range []string{"gitdir", "commondir", "HEAD"} {
		if _, err := r.dotgit.Stat(path.Join(dir, file)); err != nil {
			return false
		}
	}
	return true
}

// WorktreeLocked reports whether the linked worktree called name is locked
// and returns the lock reason, if any.
//
// Returns CodeNotFound if no such worktree exists.
func (r *Repository) WorktreeLocked(name string) (bool, string, error) {
	if err := r.check(); err != nil {
		return false, "", err
	}

	dir := path.Join(worktreesDir, name)
	if name == "" || strings.ContainsRune(name, '/') || !r.isWorktreeDir(dir) {
		return false, "", giterrors.WithContext(
			giterrors.New(giterrors.CodeNotFound, "worktree not found"),
			"name", name,
		)
	}

	f, err := r.dotgit.Open(path.Join(dir, "locked"))
	if errors.Is(err, os.ErrNotExist) {
		return false, "", nil
	}
	if err != nil {
		return false, "", wrapError(err, "failed to open worktree lock")
	}
	defer func() {
		_ = f.Close()
	}()

	reason, err := io.ReadAll(f)
	if err != nil {
		return false, "", wrapError(err, "failed to read worktree lock")
	}
	return true, strings.TrimSpace(string(reason)), nil
}

// AddWorktree creates a linked worktree at path with the git CLI and checks
// out ref there. The worktree is named after the last element of path.
//
// Linked worktrees need the OS filesystem; repositories on a memory
// filesystem fail with CodeNotSupported.
//
// Example:
//
//	err := repo.AddWorktree(ctx, "/tmp/feature", "main", git.WorktreeOptions{
//	    CreateBranch: "feature",
//	})
func (r *Repository) AddWorktree(ctx context.Context, path, ref string, opts WorktreeOptions) error {
	args := []string{"worktree", "add"}
	if opts.Force {
		args = append(args, "--force")
	}
	if opts.Detach {
		args = append(args, "--detach")
	}
	if opts.Lock {
		args = append(args, "--lock")
	}
	if opts.CreateBranch != "" {
		args = append(args, "-b", opts.CreateBranch)
	}
	args = append(args, path)
	if ref != "" {
		args = append(args, ref)
	}

	return r.runWorktree(ctx, "failed to add worktree", args...)
}

// RemoveWorktree deletes the linked worktree at path. Unless force is set, a
// worktree with local changes is refused with CodeConflict.
func (r *Repository) RemoveWorktree(ctx context.Context, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	return r.runWorktree(ctx, "failed to remove worktree", append(args, path)...)
}

// LockWorktree protects the linked worktree at path from pruning.
func (r *Repository) LockWorktree(ctx context.Context, path, reason string) error {
	args := []string{"worktree", "lock"}
	if reason != "" {
		args = append(args, "--reason", reason)
	}
	return r.runWorktree(ctx, "failed to lock worktree", append(args, path)...)
}

// UnlockWorktree allows the linked worktree at path to be pruned again.
func (r *Repository) UnlockWorktree(ctx context.Context, path string) error {
	return r.runWorktree(ctx, "failed to unlock worktree", "worktree", "unlock", path)
}

// PruneWorktrees removes administrative data of worktrees whose directories
// have disappeared.
func (r *Repository) PruneWorktrees(ctx context.Context) error {
	return r.runWorktree(ctx, "failed to prune worktrees", "worktree", "prune")
}

func (r *Repository) runWorktree(ctx context.Context, op string, args ...string) error {
	if err := r.check(); err != nil {
		return err
	}
	if r.memory {
		return giterrors.Wrap(
			giterrors.New(giterrors.CodeNotSupported, "linked worktrees require the OS filesystem"),
			giterrors.CodeNotSupported, op,
		)
	}

	r.eng.Logger().Debug("running worktree command", "args", args, "repository", r.path)
	if _, err := r.cli.Run(ctx, r.path, args...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return wrapError(ctxErr, op)
		}
		return mapCLIError(err, op)
	}
	return nil
}

// mapCLIError classifies a failed git invocation by its stderr.
func mapCLIError(err error, op string) error {
	var execErr *gitcli.ExecError
	if !errors.As(err, &execErr) {
		return giterrors.Wrap(err, giterrors.CodeExecutionFailed, op)
	}

	stderr := execErr.Stderr
	code := giterrors.CodeExecutionFailed
	switch {
	case strings.Contains(stderr, "already exists"):
		code = giterrors.CodeAlreadyExists
	case strings.Contains(stderr, "is not a working tree"), strings.Contains(stderr, "is not a valid path"):
		code = giterrors.CodeNotFound
	case strings.Contains(stderr, "contains modified or untracked files"), strings.Contains(stderr, "locked"):
		code = giterrors.CodeConflict
	case strings.Contains(strings.ToLower(stderr), "permission denied"):
		code = giterrors.CodeUnauthorized
	}

	return giterrors.WrapWithContext(err, code, op, map[string]interface{}{
		"exit_code": execErr.ExitCode,
		"stderr":    strings.TrimSpace(stderr),
	})
}
