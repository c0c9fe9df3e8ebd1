package git

import (
	"errors"
	"os"

	giterrors "github.com/bigfatbrowncat/gogit2/errors"
	"github.com/go-git/go-git/v5/plumbing/format/config"
)

// identity returns the user name and email for new commits and tags.
//
// The repository's own [user] section wins. Fields it leaves empty are
// filled from the config files on the engine's search paths, global first,
// then xdg, then system. Missing files are skipped; a file that cannot be
// parsed fails with CodeInvalidConfig.
func (r *Repository) identity() (name, email string, err error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return "", "", wrapError(err, "failed to get repository config")
	}
	name, email = cfg.User.Name, cfg.User.Email

	for _, path := range r.eng.Options().ConfigFiles() {
		if name != "" && email != "" {
			break
		}

		user, err := readUserSection(path)
		if err != nil {
			return "", "", err
		}
		if user == nil {
			continue
		}
		if name == "" {
			name = user.Option("name")
		}
		if email == "" {
			email = user.Option("email")
		}
	}
	return name, email, nil
}

// readUserSection returns the [user] section of the config file at path, or
// nil if the file does not exist or has no such section.
func readUserSection(path string) (*config.Section, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, giterrors.WithContext(
			giterrors.Wrap(err, giterrors.CodeInternal, "failed to open git config"),
			"path", path,
		)
	}
	defer func() {
		_ = f.Close()
	}()

	cfg := config.New()
	if err := config.NewDecoder(f).Decode(cfg); err != nil {
		return nil, giterrors.WithContext(
			giterrors.Wrap(err, giterrors.CodeInvalidConfig, "failed to parse git config"),
			"path", path,
		)
	}
	if !cfg.HasSection("user") {
		return nil, nil
	}
	return cfg.Section("user"), nil
}
