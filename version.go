package gogit2

import (
	"fmt"

	"github.com/bigfatbrowncat/gogit2/engine"
)

// Version is a snapshot of the engine's semantic version.
type Version struct {
	Major      int
	Minor      int
	Revision   int
	Prerelease string
}

// String formats the version as major.minor.revision, followed by
// -prerelease when one is set.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// EngineVersion queries the version of the process-wide engine. It does not
// require an open Context. A failed query returns CodeVersionUnavailable.
func EngineVersion() (Version, error) {
	return libraryVersion(engine.Default())
}

// Version queries the version of the engine held by c.
func (c *Context) Version() (Version, error) {
	return libraryVersion(c.lib)
}

// Features reports the capabilities of the process-wide engine.
func Features() engine.Feature {
	return engine.Default().Features()
}

// Features reports the capabilities of the engine held by c.
func (c *Context) Features() engine.Feature {
	return c.lib.Features()
}

func libraryVersion(lib *engine.Library) (Version, error) {
	major, minor, revision, err := lib.Version()
	if err != nil {
		return Version{}, err
	}

	pre, err := lib.Prerelease()
	if err != nil {
		return Version{}, err
	}

	return Version{Major: major, Minor: minor, Revision: revision, Prerelease: pre}, nil
}
