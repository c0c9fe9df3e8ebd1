package git

import (
	"fmt"

	"github.com/bigfatbrowncat/gogit2/strarray"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CreateBranch creates a new local branch from the specified reference
// (commit, tag, or branch). The branch is not checked out.
//
// Returns CodeAlreadyExists if the branch exists, CodeNotFound if ref doesn't
// resolve, or CodeInvalidInput for an invalid name.
//
// Examples:
//
//	err := repo.CreateBranch("feature-branch", "HEAD")
//	err := repo.CreateBranch("hotfix", "v1.0.0")
func (r *Repository) CreateBranch(name, ref string) error {
	if err := r.check(); err != nil {
		return err
	}
	if name == "" {
		return invalidInput("branch name is required", "failed to create branch")
	}
	if ref == "" {
		return invalidInput("reference is required", "failed to create branch")
	}

	branchRef := plumbing.NewBranchReferenceName(name)
	if !ReferenceNameIsValid(branchRef.String()) {
		return invalidInput(fmt.Sprintf("invalid branch name %q", name), "failed to create branch")
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return wrapError(err, fmt.Sprintf("failed to resolve reference %q", ref))
	}

	if _, err := r.repo.Reference(branchRef, false); err == nil {
		return wrapError(fmt.Errorf("branch %q: %w", name, gogit.ErrBranchExists), "failed to create branch")
	}

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(branchRef, *hash)); err != nil {
		return wrapError(err, fmt.Sprintf("failed to create branch %q", name))
	}
	return nil
}

// DeleteBranch deletes a local branch.
//
// The branch HEAD points to cannot be deleted. Unless force is set, a branch
// whose tip is not reachable from HEAD is refused with CodeConflict.
//
// Returns CodeNotFound if the branch doesn't exist.
func (r *Repository) DeleteBranch(name string, force bool) error {
	if err := r.check(); err != nil {
		return err
	}
	if name == "" {
		return invalidInput("branch name is required", "failed to delete branch")
	}

	branchRef := plumbing.NewBranchReferenceName(name)
	ref, err := r.repo.Reference(branchRef, false)
	if err != nil {
		return wrapError(err, fmt.Sprintf("failed to find branch %q", name))
	}

	head, err := r.repo.Head()
	if err != nil {
		return wrapError(err, "failed to get HEAD")
	}
	if head.Name() == branchRef {
		return wrapError(fmt.Errorf("branch %q is checked out: %w", name, errConflict), "failed to delete branch")
	}

	if !force {
		branchCommit, err := r.repo.CommitObject(ref.Hash())
		if err != nil {
			return wrapError(err, fmt.Sprintf("failed to get commit for branch %q", name))
		}
		headCommit, err := r.repo.CommitObject(head.Hash())
		if err != nil {
			return wrapError(err, "failed to get HEAD commit")
		}

		merged, err := branchCommit.IsAncestor(headCommit)
		if err != nil {
			return wrapError(err, "failed to check if branch is merged")
		}
		if !merged && branchCommit.Hash != headCommit.Hash {
			return wrapError(fmt.Errorf("branch %q has unmerged changes: %w", name, errConflict), "failed to delete branch")
		}
	}

	if err := r.repo.Storer.RemoveReference(branchRef); err != nil {
		return wrapError(err, fmt.Sprintf("failed to delete branch %q", name))
	}
	return nil
}

// BranchList returns the short names of branches of the given type, sorted.
// Local branches are listed as "main", remote-tracking branches as
// "origin/main". Symbolic references such as origin/HEAD are skipped.
//
// Example:
//
//	branches, err := repo.BranchList(git.BranchAll)
//	if err != nil {
//	    return err
//	}
//	defer branches.Close()
func (r *Repository) BranchList(kind BranchType) (*strarray.StrArray, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	if kind&BranchAll == 0 {
		return nil, invalidInput(fmt.Sprintf("unknown branch type %d", kind), "failed to list branches")
	}

	names, err := r.referenceNames(func(ref *plumbing.Reference) (string, bool) {
		if ref.Type() != plumbing.HashReference {
			return "", false
		}
		name := ref.Name()
		switch {
		case name.IsBranch():
			return name.Short(), kind&BranchLocal != 0
		case name.IsRemote():
			return name.Short(), kind&BranchRemote != 0
		}
		return "", false
	})
	if err != nil {
		return nil, err
	}
	return r.strings(names, "failed to list branches")
}
