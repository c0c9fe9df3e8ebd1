package git

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bigfatbrowncat/gogit2/strarray"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// AddAll stages the working tree paths matching pathspec. Each entry is a
// glob pattern relative to the repository root; a matching directory is
// added recursively. A nil or empty pathspec stages every change, including
// deletions. Patterns that match nothing are ignored.
//
// Example:
//
//	specs := strarray.FromSlice(eng, []string{"*.go", "docs"})
//	defer specs.Close()
//	err := repo.AddAll(specs)
func (r *Repository) AddAll(pathspec *strarray.StrArray) error {
	if err := r.check(); err != nil {
		return err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return wrapError(err, "failed to get worktree")
	}

	if pathspec.Len() == 0 {
		if err := wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
			return wrapError(err, "failed to stage changes")
		}
		return nil
	}

	for _, pattern := range pathspec.All() {
		if err := wt.AddGlob(pattern); err != nil && !errors.Is(err, gogit.ErrGlobNoMatches) {
			return wrapError(err, fmt.Sprintf("failed to stage %q", pattern))
		}
	}
	return nil
}

// RemoveAll removes the tracked paths matching pathspec from the index and
// the working tree. Patterns that match nothing are ignored.
//
// An empty pathspec fails with CodeInvalidInput.
func (r *Repository) RemoveAll(pathspec *strarray.StrArray) error {
	if err := r.check(); err != nil {
		return err
	}
	if pathspec.Len() == 0 {
		return invalidInput("pathspec is required", "failed to remove paths")
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return wrapError(err, "failed to get worktree")
	}

	for _, pattern := range pathspec.All() {
		if err := wt.RemoveGlob(pattern); err != nil && !errors.Is(err, gogit.ErrGlobNoMatches) {
			return wrapError(err, fmt.Sprintf("failed to remove %q", pattern))
		}
	}
	return nil
}

// ResetDefault resets the index entries of the paths in pathspec to their
// state in target, leaving the working tree alone. An empty target means HEAD.
// A nil or empty pathspec resets the whole index.
//
// Example:
//
//	// Unstage main.go
//	paths := strarray.FromSlice(eng, []string{"main.go"})
//	defer paths.Close()
//	err := repo.ResetDefault("", paths)
func (r *Repository) ResetDefault(target string, pathspec *strarray.StrArray) error {
	if err := r.check(); err != nil {
		return err
	}

	if target == "" {
		target = plumbing.HEAD.String()
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(target))
	if err != nil {
		return wrapError(err, fmt.Sprintf("failed to resolve reference %q", target))
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return wrapError(err, "failed to get worktree")
	}

	// The engine's reset also moves HEAD; put it back afterwards.
	head, err := r.repo.Reference(plumbing.HEAD, true)
	if err != nil {
		return wrapError(err, "failed to resolve HEAD")
	}

	err = wt.Reset(&gogit.ResetOptions{
		Commit: *hash,
		Mode:   gogit.MixedReset,
		Files:  pathspec.Slice(),
	})
	if err != nil {
		return wrapError(err, "failed to reset index")
	}

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(head.Name(), head.Hash())); err != nil {
		return wrapError(err, "failed to restore HEAD")
	}
	return nil
}

// Status returns the paths that differ between HEAD, the index and the
// working tree, including untracked files, sorted.
func (r *Repository) Status() (*strarray.StrArray, error) {
	if err := r.check(); err != nil {
		return nil, err
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, wrapError(err, "failed to get worktree")
	}

	status, err := wt.Status()
	if err != nil {
		return nil, wrapError(err, "failed to compute status")
	}

	paths := make([]string, 0, len(status))
	for path, s := range status {
		if s.Staging != gogit.Unmodified || s.Worktree != gogit.Unmodified {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)
	return r.strings(paths, "failed to list status")
}
