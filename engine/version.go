package engine

import (
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/bigfatbrowncat/gogit2/errors"
)

const (
	// EngineModule is the module path of the wrapped engine.
	EngineModule = "github.com/go-git/go-git/v5"

	// PinnedEngineVersion is the engine version this binding was built against.
	// It is reported when the binary carries no build information for EngineModule.
	PinnedEngineVersion = "v5.16.3"
)

// VersionSource returns the raw engine version string, such as "v5.16.3".
type VersionSource func() (string, error)

// BuildInfoVersion reads the engine version from the binary's build
// information, honoring replace directives.
func BuildInfoVersion() (string, error) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return PinnedEngineVersion, nil
	}

	for _, dep := range info.Deps {
		if dep.Path != EngineModule {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version, nil
		}
		return dep.Version, nil
	}
	return PinnedEngineVersion, nil
}

// Version returns the engine's major, minor and revision numbers.
// A failing or unparsable version source yields CodeVersionUnavailable.
func (l *Library) Version() (major, minor, revision int, err error) {
	v, err := l.semver()
	if err != nil {
		return 0, 0, 0, err
	}
	return int(v.Major()), int(v.Minor()), int(v.Patch()), nil
}

// Prerelease returns the prerelease tag of the engine version, or "" for a
// release build.
func (l *Library) Prerelease() (string, error) {
	v, err := l.semver()
	if err != nil {
		return "", err
	}
	return v.Prerelease(), nil
}

func (l *Library) semver() (*semver.Version, error) {
	raw, err := l.version()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeVersionUnavailable, "failed to query engine version")
	}

	v, err := semver.NewVersion(strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.WithContext(
			errors.Wrap(err, errors.CodeVersionUnavailable, "engine reported an invalid version"),
			"version", raw,
		)
	}
	return v, nil
}

// Feature is a bit set of optional engine capabilities.
type Feature uint

const (
	// FeatureThreads means the engine is safe for concurrent use.
	FeatureThreads Feature = 1 << iota
	// FeatureHTTPS means the engine can talk to HTTPS remotes.
	FeatureHTTPS
	// FeatureSSH means the engine can talk to SSH remotes.
	FeatureSSH
	// FeatureNsec means the index records nanosecond file times.
	FeatureNsec
)

var featureNames = []struct {
	feature Feature
	name    string
}{
	{FeatureThreads, "threads"},
	{FeatureHTTPS, "https"},
	{FeatureSSH, "ssh"},
	{FeatureNsec, "nsec"},
}

// Has reports whether every bit of want is set in f.
func (f Feature) Has(want Feature) bool {
	return f&want == want
}

// String lists the set features separated by '|'.
func (f Feature) String() string {
	var names []string
	for _, fn := range featureNames {
		if f.Has(fn.feature) {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Features reports the capabilities go-git is built with: it is
// goroutine-safe, ships HTTPS and SSH transports, and stores nanosecond
// index times.
func (l *Library) Features() Feature {
	return FeatureThreads | FeatureHTTPS | FeatureSSH | FeatureNsec
}
