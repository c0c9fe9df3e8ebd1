package git

import (
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CreateCommit records the staged changes as a new commit on HEAD and returns
// its hash.
//
// Committing a clean index fails with CodeConflict unless AllowEmpty is set.
// An empty Author or Email is filled from the user configuration, the same
// way CreateTag finds its tagger. If either is still empty, or Message is,
// the call fails with CodeInvalidInput.
//
// Example:
//
//	hash, err := repo.CreateCommit(git.CommitOptions{
//	    Author:  "John Doe",
//	    Email:   "john@example.com",
//	    Message: "Add new feature",
//	})
func (r *Repository) CreateCommit(opts CommitOptions) (string, error) {
	if err := r.check(); err != nil {
		return "", err
	}
	if opts.Author == "" || opts.Email == "" {
		name, email, err := r.identity()
		if err != nil {
			return "", err
		}
		if opts.Author == "" {
			opts.Author = name
		}
		if opts.Email == "" {
			opts.Email = email
		}
	}
	if opts.Author == "" {
		return "", invalidInput("author is required", "failed to create commit")
	}
	if opts.Email == "" {
		return "", invalidInput("email is required", "failed to create commit")
	}
	if opts.Message == "" {
		return "", invalidInput("message is required", "failed to create commit")
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return "", wrapError(err, "failed to get worktree")
	}

	when := opts.When
	if when.IsZero() {
		when = time.Now()
	}

	hash, err := wt.Commit(opts.Message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  opts.Author,
			Email: opts.Email,
			When:  when,
		},
		AllowEmptyCommits: opts.AllowEmpty,
	})
	if err != nil {
		return "", wrapError(err, "failed to create commit")
	}

	return hash.String(), nil
}

// HeadCommit returns the commit HEAD points to.
//
// Returns CodeNotFound in a repository without commits.
func (r *Repository) HeadCommit() (*Commit, error) {
	if err := r.check(); err != nil {
		return nil, err
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, wrapError(err, "failed to resolve HEAD")
	}

	c, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, wrapError(err, "failed to get HEAD commit")
	}

	return &Commit{
		Hash:      c.Hash.String(),
		Author:    c.Author.Name,
		Email:     c.Author.Email,
		Message:   c.Message,
		Timestamp: c.Author.When,
		raw:       c,
	}, nil
}

// Underlying returns the go-git commit object.
func (c *Commit) Underlying() *object.Commit {
	return c.raw
}
