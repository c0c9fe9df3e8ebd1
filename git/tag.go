package git

import (
	"fmt"
	"time"

	giterrors "github.com/bigfatbrowncat/gogit2/errors"
	"github.com/bigfatbrowncat/gogit2/strarray"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/gobwas/glob"
)

// CreateTag creates an annotated tag with a message at the specified reference.
//
// The ref parameter can be a commit hash, a branch or tag name, or "HEAD".
// The tagger is taken from the repository's [user] configuration, falling
// back to the git config files on the engine's search paths.
//
// Returns CodeAlreadyExists if the tag exists, CodeNotFound if ref doesn't
// resolve, CodeInvalidInput for missing parameters, or CodeInvalidConfig if
// a config file on the search paths is malformed.
//
// Example:
//
//	err := repo.CreateTag("v1.0.0", "HEAD", "Release version 1.0.0")
func (r *Repository) CreateTag(name, ref, message string) error {
	if err := r.check(); err != nil {
		return err
	}
	if name == "" {
		return invalidInput("tag name is required", "failed to create tag")
	}
	if ref == "" {
		return invalidInput("reference is required", "failed to create tag")
	}
	if message == "" {
		return invalidInput("message is required for annotated tag", "failed to create tag")
	}

	hash, tagRef, err := r.prepareTag(name, ref)
	if err != nil {
		return err
	}

	tagger, email, err := r.identity()
	if err != nil {
		return err
	}

	tag := &object.Tag{
		Name: name,
		Tagger: object.Signature{
			Name:  tagger,
			Email: email,
			When:  time.Now(),
		},
		Message:    message,
		TargetType: plumbing.CommitObject,
		Target:     hash,
	}

	obj := r.repo.Storer.NewEncodedObject()
	if err := tag.Encode(obj); err != nil {
		return wrapError(err, "failed to encode tag object")
	}

	tagHash, err := r.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return wrapError(err, "failed to store tag object")
	}

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(tagRef, tagHash)); err != nil {
		return wrapError(err, fmt.Sprintf("failed to create tag reference %q", name))
	}
	return nil
}

// CreateLightweightTag creates a tag reference pointing directly at ref.
//
// Returns CodeAlreadyExists if the tag exists or CodeNotFound if ref doesn't
// resolve.
func (r *Repository) CreateLightweightTag(name, ref string) error {
	if err := r.check(); err != nil {
		return err
	}
	if name == "" {
		return invalidInput("tag name is required", "failed to create lightweight tag")
	}
	if ref == "" {
		return invalidInput("reference is required", "failed to create lightweight tag")
	}

	hash, tagRef, err := r.prepareTag(name, ref)
	if err != nil {
		return err
	}

	if err := r.repo.Storer.SetReference(plumbing.NewHashReference(tagRef, hash)); err != nil {
		return wrapError(err, fmt.Sprintf("failed to create lightweight tag %q", name))
	}
	return nil
}

// prepareTag resolves ref and checks that no tag called name exists yet.
func (r *Repository) prepareTag(name, ref string) (plumbing.Hash, plumbing.ReferenceName, error) {
	tagRef := plumbing.NewTagReferenceName(name)
	if !ReferenceNameIsValid(tagRef.String()) {
		return plumbing.ZeroHash, "", invalidInput(fmt.Sprintf("invalid tag name %q", name), "failed to create tag")
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, "", wrapError(err, fmt.Sprintf("failed to resolve reference %q", ref))
	}

	if _, err := r.repo.Reference(tagRef, false); err == nil {
		return plumbing.ZeroHash, "", wrapError(fmt.Errorf("tag %q: %w", name, gogit.ErrTagExists), "failed to create tag")
	}
	return *hash, tagRef, nil
}

// DeleteTag removes a tag reference. For annotated tags the tag object stays
// in the object database until it is garbage collected.
//
// Returns CodeNotFound if the tag doesn't exist.
func (r *Repository) DeleteTag(name string) error {
	if err := r.check(); err != nil {
		return err
	}
	if name == "" {
		return invalidInput("tag name is required", "failed to delete tag")
	}

	tagRef := plumbing.NewTagReferenceName(name)
	if _, err := r.repo.Reference(tagRef, false); err != nil {
		return wrapError(err, fmt.Sprintf("failed to find tag %q", name))
	}

	if err := r.repo.Storer.RemoveReference(tagRef); err != nil {
		return wrapError(err, fmt.Sprintf("failed to delete tag %q", name))
	}
	return nil
}

// TagList returns the short names of all tags, sorted.
func (r *Repository) TagList() (*strarray.StrArray, error) {
	return r.tagList(nil)
}

// TagListMatch returns the short names of tags matching a glob pattern such
// as "v1.*", sorted.
//
// Returns CodeInvalidInput if the pattern does not compile.
//
// Example:
//
//	tags, err := repo.TagListMatch("v1.*")
//	if err != nil {
//	    return err
//	}
//	defer tags.Close()
func (r *Repository) TagListMatch(pattern string) (*strarray.StrArray, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, giterrors.WithContext(
			giterrors.Wrap(err, giterrors.CodeInvalidInput, "invalid tag pattern"),
			"pattern", pattern,
		)
	}
	return r.tagList(g)
}

func (r *Repository) tagList(match glob.Glob) (*strarray.StrArray, error) {
	if err := r.check(); err != nil {
		return nil, err
	}

	names, err := r.referenceNames(func(ref *plumbing.Reference) (string, bool) {
		if !ref.Name().IsTag() {
			return "", false
		}
		short := ref.Name().Short()
		return short, match == nil || match.Match(short)
	})
	if err != nil {
		return nil, err
	}
	return r.strings(names, "failed to list tags")
}
