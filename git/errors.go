package git

import (
	"context"
	"errors"

	giterrors "github.com/bigfatbrowncat/gogit2/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// wrapError wraps an error with context, classifying go-git sentinels into
// error codes. The original error stays reachable through errors.Is/As.
// If err is nil, returns nil.
func wrapError(err error, context string) error {
	if err == nil {
		return nil
	}

	classified := classifyError(err)
	return giterrors.Wrap(classified, giterrors.GetCode(classified), context)
}

// invalidInput reports a bad argument to the operation named by context.
func invalidInput(message, context string) error {
	return giterrors.Wrap(giterrors.New(giterrors.CodeInvalidInput, message), giterrors.CodeInvalidInput, context)
}

// errConflict marks refusals caused by repository state, such as deleting
// the checked out branch.
var errConflict = errors.New("conflicting state")

type classification struct {
	target  error
	code    giterrors.ErrorCode
	message string
}

var classifications = []classification{
	{gogit.ErrRepositoryNotExists, giterrors.CodeNotFound, "repository does not exist"},
	{transport.ErrRepositoryNotFound, giterrors.CodeNotFound, "repository not found"},
	{plumbing.ErrReferenceNotFound, giterrors.CodeNotFound, "reference not found"},
	{plumbing.ErrObjectNotFound, giterrors.CodeNotFound, "object not found"},
	{gogit.ErrRemoteNotFound, giterrors.CodeNotFound, "remote not found"},
	{gogit.ErrBranchNotFound, giterrors.CodeNotFound, "branch not found"},
	{gogit.ErrTagNotFound, giterrors.CodeNotFound, "tag not found"},
	{transport.ErrEmptyRemoteRepository, giterrors.CodeNotFound, "remote repository is empty"},

	{gogit.ErrRepositoryAlreadyExists, giterrors.CodeAlreadyExists, "repository already exists"},
	{gogit.ErrRemoteExists, giterrors.CodeAlreadyExists, "remote already exists"},
	{gogit.ErrBranchExists, giterrors.CodeAlreadyExists, "branch already exists"},
	{gogit.ErrTagExists, giterrors.CodeAlreadyExists, "tag already exists"},
	{gogit.ErrDestinationExists, giterrors.CodeAlreadyExists, "destination already exists"},

	{transport.ErrAuthenticationRequired, giterrors.CodeUnauthorized, "authentication required"},
	{transport.ErrAuthorizationFailed, giterrors.CodeUnauthorized, "authorization failed"},
	{transport.ErrInvalidAuthMethod, giterrors.CodeUnauthorized, "invalid auth method"},

	{gogit.ErrWorktreeNotClean, giterrors.CodeConflict, "worktree is not clean"},
	{gogit.ErrEmptyCommit, giterrors.CodeConflict, "cannot create empty commit: working tree is clean"},
	{gogit.ErrNonFastForwardUpdate, giterrors.CodeConflict, "non-fast-forward update"},
	{gogit.ErrForceNeeded, giterrors.CodeConflict, "some refs were not updated"},
	{errConflict, giterrors.CodeConflict, "conflicting state"},

	{gogit.ErrMissingURL, giterrors.CodeInvalidInput, "URL is required"},
	{gogit.ErrMissingAuthor, giterrors.CodeInvalidInput, "author is required"},
	{gogit.ErrMissingName, giterrors.CodeInvalidInput, "name is required"},
	{gogit.ErrHashOrReference, giterrors.CodeInvalidInput, "ambiguous options: only one of hash or reference allowed"},
	{gogit.ErrBranchHashExclusive, giterrors.CodeInvalidInput, "branch and hash are mutually exclusive"},
	{config.ErrRefSpecMalformedSeparator, giterrors.CodeInvalidInput, "malformed refspec separator"},
	{config.ErrRefSpecMalformedWildcard, giterrors.CodeInvalidInput, "malformed refspec wildcard"},

	{context.DeadlineExceeded, giterrors.CodeTimeout, "operation timed out"},
}

// classifyError maps go-git errors to coded errors. Errors that already carry
// a code, and errors with no known classification, are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var coded giterrors.GitError
	if errors.As(err, &coded) {
		return err
	}

	for _, c := range classifications {
		if errors.Is(err, c.target) {
			return giterrors.Wrap(err, c.code, c.message)
		}
	}
	return err
}

// checkEngine fails with CodeNotInitialized unless eng is initialized.
func checkEngine(eng Engine) error {
	if eng == nil || !eng.Initialized() {
		return giterrors.New(giterrors.CodeNotInitialized, "engine is not initialized")
	}
	return nil
}
