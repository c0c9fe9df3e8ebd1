package engine

import (
	"io"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/bigfatbrowncat/gogit2/errors"
	"gopkg.in/yaml.v3"
)

// ConfigLevel names a git configuration level whose files are searched for in
// the paths registered for it.
type ConfigLevel string

const (
	LevelSystem ConfigLevel = "system"
	LevelXDG    ConfigLevel = "xdg"
	LevelGlobal ConfigLevel = "global"
)

// ByteSize is a size in bytes. In YAML it may be written as an integer or
// with a KiB, MiB or GiB suffix.
type ByteSize int64

const (
	KiB ByteSize = 1 << 10
	MiB ByteSize = 1 << 20
	GiB ByteSize = 1 << 30
)

// UnmarshalYAML implements yaml.Unmarshaler.
func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	size, err := ParseByteSize(node.Value)
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// ParseByteSize parses "1024", "64KiB", "96MiB" or "1GiB".
func ParseByteSize(s string) (ByteSize, error) {
	s = strings.TrimSpace(s)
	unit := ByteSize(1)
	for _, suffix := range []struct {
		text string
		size ByteSize
	}{{"KiB", KiB}, {"MiB", MiB}, {"GiB", GiB}} {
		if strings.HasSuffix(s, suffix.text) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix.text))
			unit = suffix.size
			break
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, errors.CodeInvalidConfig, "invalid byte size %q", s)
	}
	if n > math.MaxInt64/int64(unit) || n < math.MinInt64/int64(unit) {
		return 0, errors.Newf(errors.CodeInvalidConfig, "byte size %d times %d overflows", n, unit)
	}
	return ByteSize(n) * unit, nil
}

// Options are the engine's global settings.
type Options struct {
	// ObjectCacheLimit bounds the decoded-object cache of each repository.
	ObjectCacheLimit ByteSize `yaml:"object_cache_limit"`

	// NetworkTimeout bounds fetch, push and clone calls whose context has no
	// deadline. Zero disables the bound.
	NetworkTimeout time.Duration `yaml:"network_timeout"`

	// DefaultRemote is used when a network call names no remote.
	DefaultRemote string `yaml:"default_remote"`

	// SearchPaths lists, per level, the directories searched for git config files.
	SearchPaths map[ConfigLevel][]string `yaml:"search_paths"`
}

// DefaultOptions returns the engine defaults: a 96 MiB object cache, no
// network timeout, "origin" as default remote, and the standard config
// search paths ($HOME, $XDG_CONFIG_HOME/git and /etc).
func DefaultOptions() Options {
	return Options{
		ObjectCacheLimit: 96 * MiB,
		DefaultRemote:    "origin",
		SearchPaths: map[ConfigLevel][]string{
			LevelGlobal: {xdg.Home},
			LevelXDG:    {filepath.Join(xdg.ConfigHome, "git")},
			LevelSystem: {"/etc"},
		},
	}
}

// Validate checks the options and returns a CodeInvalidConfig error
// describing the first problem found.
func (o Options) Validate() error {
	if o.ObjectCacheLimit <= 0 {
		return errors.Newf(errors.CodeInvalidConfig, "object cache limit must be positive, got %d", o.ObjectCacheLimit)
	}
	if o.NetworkTimeout < 0 {
		return errors.Newf(errors.CodeInvalidConfig, "network timeout must not be negative, got %s", o.NetworkTimeout)
	}
	if o.DefaultRemote == "" || strings.ContainsAny(o.DefaultRemote, " \t/:") {
		return errors.Newf(errors.CodeInvalidConfig, "invalid default remote name %q", o.DefaultRemote)
	}
	for level := range o.SearchPaths {
		switch level {
		case LevelSystem, LevelXDG, LevelGlobal:
		default:
			return errors.Newf(errors.CodeInvalidConfig, "unknown config level %q", level)
		}
	}
	return nil
}

// ConfigFileName is the name of the git config file looked for in the
// directories of level.
func (l ConfigLevel) ConfigFileName() string {
	switch l {
	case LevelGlobal:
		return ".gitconfig"
	case LevelXDG:
		return "config"
	case LevelSystem:
		return "gitconfig"
	}
	return ""
}

// ConfigFiles returns the candidate git config files in lookup order:
// global first, then xdg, then system. Files are not checked for existence.
func (o Options) ConfigFiles() []string {
	var files []string
	for _, level := range []ConfigLevel{LevelGlobal, LevelXDG, LevelSystem} {
		for _, dir := range o.SearchPaths[level] {
			files = append(files, filepath.Join(dir, level.ConfigFileName()))
		}
	}
	return files
}

// Equal reports whether o and other hold the same settings.
func (o Options) Equal(other Options) bool {
	return o.ObjectCacheLimit == other.ObjectCacheLimit &&
		o.NetworkTimeout == other.NetworkTimeout &&
		o.DefaultRemote == other.DefaultRemote &&
		maps.EqualFunc(o.SearchPaths, other.SearchPaths, slices.Equal[[]string])
}

// SearchPath returns the directories registered for level.
func (o Options) SearchPath(level ConfigLevel) []string {
	return slices.Clone(o.SearchPaths[level])
}

func (o Options) clone() Options {
	out := o
	if o.SearchPaths != nil {
		out.SearchPaths = make(map[ConfigLevel][]string, len(o.SearchPaths))
		for level, paths := range o.SearchPaths {
			out.SearchPaths[level] = slices.Clone(paths)
		}
	}
	return out
}

// LoadOptions reads YAML options from r on top of DefaultOptions.
// Levels missing from search_paths keep their defaults. Unknown keys and
// invalid values fail with CodeInvalidConfig.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	defaults := maps.Clone(opts.SearchPaths)

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, errors.Wrap(err, errors.CodeInvalidConfig, "failed to decode engine options")
	}

	// A document may set search_paths to null; fall back to the defaults.
	if opts.SearchPaths == nil {
		opts.SearchPaths = defaults
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptionsFile reads YAML options from the file at path.
func LoadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, errors.WithContext(
			errors.Wrap(err, errors.CodeInvalidConfig, "failed to open engine options"),
			"path", path,
		)
	}
	defer func() {
		_ = f.Close()
	}()

	return LoadOptions(f)
}
