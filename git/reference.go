package git

import (
	"slices"
	"strings"

	giterrors "github.com/bigfatbrowncat/gogit2/errors"
	"github.com/bigfatbrowncat/gogit2/strarray"
	"github.com/go-git/go-git/v5/plumbing"
)

// ReferenceList returns the names of all references under refs/, sorted.
// HEAD is not included.
//
// Example:
//
//	refs, err := repo.ReferenceList()
//	if err != nil {
//	    return err
//	}
//	defer refs.Close()
//	for _, name := range refs.All() {
//	    fmt.Println(name) // refs/heads/main, refs/tags/v1, ...
//	}
func (r *Repository) ReferenceList() (*strarray.StrArray, error) {
	if err := r.check(); err != nil {
		return nil, err
	}

	names, err := r.referenceNames(func(ref *plumbing.Reference) (string, bool) {
		name := ref.Name().String()
		return name, strings.HasPrefix(name, "refs/")
	})
	if err != nil {
		return nil, err
	}
	return r.strings(names, "failed to list references")
}

// ReferenceNameIsValid reports whether name is a well-formed reference name
// such as HEAD or refs/heads/main.
func ReferenceNameIsValid(name string) bool {
	return plumbing.ReferenceName(name).Validate() == nil
}

// referenceNames collects the names keep accepts, sorted.
func (r *Repository) referenceNames(keep func(*plumbing.Reference) (string, bool)) ([]string, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, wrapError(err, "failed to list references")
	}
	defer refs.Close()

	var names []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if name, ok := keep(ref); ok {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err, "failed to iterate references")
	}

	slices.Sort(names)
	return names, nil
}

// strings copies values into a string array owned by the caller.
func (r *Repository) strings(values []string, context string) (*strarray.StrArray, error) {
	arr, err := strarray.Alloc(r.eng, values)
	if err != nil {
		return nil, giterrors.Wrap(err, giterrors.CodeAllocationFailed, context)
	}
	return arr, nil
}
