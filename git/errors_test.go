package git

import (
	"context"
	"errors"
	"fmt"
	"testing"

	giterrors "github.com/bigfatbrowncat/gogit2/errors"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code giterrors.ErrorCode
	}{
		{"repository not exists", gogit.ErrRepositoryNotExists, giterrors.CodeNotFound},
		{"remote repository not found", transport.ErrRepositoryNotFound, giterrors.CodeNotFound},
		{"reference not found", plumbing.ErrReferenceNotFound, giterrors.CodeNotFound},
		{"object not found", plumbing.ErrObjectNotFound, giterrors.CodeNotFound},
		{"empty remote", transport.ErrEmptyRemoteRepository, giterrors.CodeNotFound},
		{"repository exists", gogit.ErrRepositoryAlreadyExists, giterrors.CodeAlreadyExists},
		{"remote exists", gogit.ErrRemoteExists, giterrors.CodeAlreadyExists},
		{"authentication required", transport.ErrAuthenticationRequired, giterrors.CodeUnauthorized},
		{"authorization failed", transport.ErrAuthorizationFailed, giterrors.CodeUnauthorized},
		{"worktree not clean", gogit.ErrWorktreeNotClean, giterrors.CodeConflict},
		{"force needed", gogit.ErrForceNeeded, giterrors.CodeConflict},
		{"malformed refspec", config.ErrRefSpecMalformedWildcard, giterrors.CodeInvalidInput},
		{"missing URL", gogit.ErrMissingURL, giterrors.CodeInvalidInput},
		{"deadline", context.DeadlineExceeded, giterrors.CodeTimeout},
		{"wrapped sentinel", fmt.Errorf("fetching: %w", plumbing.ErrReferenceNotFound), giterrors.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifyError(tt.err)
			assert.Equal(t, tt.code, giterrors.GetCode(classified))
			assert.ErrorIs(t, classified, tt.err)
		})
	}
}

func TestClassifyError_Passthrough(t *testing.T) {
	assert.NoError(t, classifyError(nil))

	unknown := errors.New("something unexpected")
	assert.Same(t, unknown, classifyError(unknown))

	coded := giterrors.New(giterrors.CodeAllocationFailed, "out of memory")
	assert.Equal(t, coded, classifyError(coded))
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, wrapError(nil, "context"))

	err := wrapError(gogit.ErrRemoteNotFound, "failed to look up remote")
	require.Error(t, err)
	assert.Equal(t, giterrors.CodeNotFound, giterrors.GetCode(err))
	assert.Contains(t, err.Error(), "failed to look up remote")
	assert.ErrorIs(t, err, gogit.ErrRemoteNotFound)

	// Wrapping again keeps the code.
	outer := wrapError(err, "outer")
	assert.Equal(t, giterrors.CodeNotFound, giterrors.GetCode(outer))

	unknown := wrapError(errors.New("disk on fire"), "failed")
	assert.Equal(t, giterrors.CodeUnknown, giterrors.GetCode(unknown))
}

func TestWrapNetworkError(t *testing.T) {
	err := wrapNetworkError(errors.New("connection refused"), "failed to fetch")
	assert.Equal(t, giterrors.CodeNetwork, giterrors.GetCode(err))
	assert.True(t, giterrors.IsRetryable(err))

	err = wrapNetworkError(transport.ErrAuthenticationRequired, "failed to fetch")
	assert.Equal(t, giterrors.CodeUnauthorized, giterrors.GetCode(err))
	assert.False(t, giterrors.IsRetryable(err))
}

func TestInvalidInput(t *testing.T) {
	err := invalidInput("name is required", "failed to create branch")
	assert.Equal(t, giterrors.CodeInvalidInput, giterrors.GetCode(err))
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "failed to create branch")
}

func TestCheckEngine(t *testing.T) {
	eng, _ := newTestEngine(t)
	assert.NoError(t, checkEngine(eng))
	assert.True(t, giterrors.HasCode(checkEngine(nil), giterrors.CodeNotInitialized))

	_, err := eng.Shutdown()
	require.NoError(t, err)
	assert.True(t, giterrors.HasCode(checkEngine(eng), giterrors.CodeNotInitialized))
}
