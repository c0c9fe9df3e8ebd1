package gogit2

import (
	stderrors "errors"
	"testing"

	"github.com/bigfatbrowncat/gogit2/engine"
	"github.com/bigfatbrowncat/gogit2/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineVersion(t *testing.T) {
	v, err := EngineVersion()
	require.NoError(t, err)

	assert.Equal(t, 5, v.Major)
	assert.GreaterOrEqual(t, v.Minor, 0)
	assert.GreaterOrEqual(t, v.Revision, 0)
}

func TestContext_Version(t *testing.T) {
	lib := engine.NewLibrary(engine.WithVersionSource(func() (string, error) {
		return "v5.17.0-rc.2", nil
	}))
	ctx, err := NewContext(WithLibrary(lib))
	require.NoError(t, err)
	defer ctx.Close()

	v, err := ctx.Version()
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 5, Minor: 17, Revision: 0, Prerelease: "rc.2"}, v)
	assert.Equal(t, "5.17.0-rc.2", v.String())
}

func TestContext_VersionUnavailable(t *testing.T) {
	lib := engine.NewLibrary(engine.WithVersionSource(func() (string, error) {
		return "", stderrors.New("query failed")
	}))
	ctx, err := NewContext(WithLibrary(lib))
	require.NoError(t, err)
	defer ctx.Close()

	v, err := ctx.Version()
	require.Error(t, err)
	assert.Equal(t, Version{}, v)
	assert.Equal(t, errors.CodeVersionUnavailable, errors.GetCode(err))
}

func TestVersion_String(t *testing.T) {
	assert.Equal(t, "5.16.3", Version{Major: 5, Minor: 16, Revision: 3}.String())
	assert.Equal(t, "1.0.0-beta", Version{Major: 1, Prerelease: "beta"}.String())
}

func TestFeatures(t *testing.T) {
	assert.True(t, Features().Has(engine.FeatureThreads|engine.FeatureHTTPS))

	ctx, err := NewContext(WithLibrary(engine.NewLibrary()))
	require.NoError(t, err)
	defer ctx.Close()
	assert.Equal(t, Features(), ctx.Features())
}
