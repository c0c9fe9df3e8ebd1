package git

import (
	"context"
	"errors"
	"fmt"
	"slices"

	giterrors "github.com/bigfatbrowncat/gogit2/errors"
	"github.com/bigfatbrowncat/gogit2/strarray"
	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage"
)

// RemoteOperations defines the network operations of the engine. The default
// implementation delegates to go-git; tests can substitute one that needs no
// network access.
type RemoteOperations interface {
	// Clone clones opts.URL into the given storage and work tree. A nil
	// worktree clones a bare repository.
	Clone(ctx context.Context, s storage.Storer, worktree billy.Filesystem, opts *gogit.CloneOptions) (*gogit.Repository, error)

	// Fetch downloads objects and refs from a remote.
	Fetch(ctx context.Context, repo *gogit.Repository, opts *gogit.FetchOptions) error

	// Push uploads objects and refs to a remote.
	Push(ctx context.Context, repo *gogit.Repository, opts *gogit.PushOptions) error
}

type defaultRemoteOps struct{}

func (d *defaultRemoteOps) Clone(ctx context.Context, s storage.Storer, worktree billy.Filesystem, opts *gogit.CloneOptions) (*gogit.Repository, error) {
	//nolint:wrapcheck // Classified by the caller
	return gogit.CloneContext(ctx, s, worktree, opts)
}

func (d *defaultRemoteOps) Fetch(ctx context.Context, repo *gogit.Repository, opts *gogit.FetchOptions) error {
	//nolint:wrapcheck // Classified by the caller
	return repo.FetchContext(ctx, opts)
}

func (d *defaultRemoteOps) Push(ctx context.Context, repo *gogit.Repository, opts *gogit.PushOptions) error {
	//nolint:wrapcheck // Classified by the caller
	return repo.PushContext(ctx, opts)
}

// wrapNetworkError is wrapError for transport calls: failures go-git does not
// classify are reported as CodeNetwork.
func wrapNetworkError(err error, context string) error {
	classified := classifyError(err)
	if giterrors.GetCode(classified) == giterrors.CodeUnknown {
		classified = giterrors.Wrap(err, giterrors.CodeNetwork, "transport failure")
	}
	return giterrors.Wrap(classified, giterrors.GetCode(classified), context)
}

// DefaultFetchRefspec returns the fetch refspec git configures for a new
// remote: +refs/heads/*:refs/remotes/<name>/*.
func DefaultFetchRefspec(name string) string {
	return fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", name)
}

// Remote is a configured remote of a Repository.
type Remote struct {
	repo *Repository
	cfg  *config.RemoteConfig
	push []string
}

// Name returns the remote name.
func (rm *Remote) Name() string {
	return rm.cfg.Name
}

// URL returns the first configured URL.
func (rm *Remote) URL() string {
	if len(rm.cfg.URLs) == 0 {
		return ""
	}
	return rm.cfg.URLs[0]
}

// FetchRefspecs returns the remote's fetch refspecs.
func (rm *Remote) FetchRefspecs() (*strarray.StrArray, error) {
	specs := make([]string, 0, len(rm.cfg.Fetch))
	for _, spec := range rm.cfg.Fetch {
		specs = append(specs, spec.String())
	}
	return rm.repo.strings(specs, "failed to list fetch refspecs")
}

// PushRefspecs returns the remote's push refspecs.
func (rm *Remote) PushRefspecs() (*strarray.StrArray, error) {
	return rm.repo.strings(rm.push, "failed to list push refspecs")
}

// RemoteList returns the names of all configured remotes, sorted.
//
// Example:
//
//	names, err := repo.RemoteList()
//	if err != nil {
//	    return err
//	}
//	defer names.Close()
//	fmt.Println(names.Slice()) // [origin upstream]
func (r *Repository) RemoteList() (*strarray.StrArray, error) {
	if err := r.check(); err != nil {
		return nil, err
	}

	cfg, err := r.repo.Config()
	if err != nil {
		return nil, wrapError(err, "failed to read repository config")
	}

	names := make([]string, 0, len(cfg.Remotes))
	for name := range cfg.Remotes {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.strings(names, "failed to list remotes")
}

// CreateRemote adds a remote with the default fetch refspec.
//
// Returns CodeAlreadyExists if the remote exists or CodeInvalidInput for an
// invalid name or URL.
func (r *Repository) CreateRemote(name, url string) (*Remote, error) {
	return r.CreateRemoteWithFetchspec(name, url, DefaultFetchRefspec(name))
}

// CreateRemoteWithFetchspec adds a remote with a custom fetch refspec.
// An empty fetchspec falls back to DefaultFetchRefspec.
func (r *Repository) CreateRemoteWithFetchspec(name, url, fetchspec string) (*Remote, error) {
	if err := r.check(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, invalidInput("remote name is required", "failed to create remote")
	}
	if url == "" {
		return nil, invalidInput("remote URL is required", "failed to create remote")
	}

	remoteCfg := &config.RemoteConfig{Name: name, URLs: []string{url}}
	if fetchspec != "" {
		spec := config.RefSpec(fetchspec)
		if err := spec.Validate(); err != nil {
			return nil, wrapError(err, fmt.Sprintf("invalid fetch refspec %q", fetchspec))
		}
		remoteCfg.Fetch = []config.RefSpec{spec}
	}

	if _, err := r.repo.CreateRemote(remoteCfg); err != nil {
		return nil, wrapError(err, fmt.Sprintf("failed to create remote %q", name))
	}

	r.eng.Logger().Debug("remote created", "name", name, "url", url)
	return r.LookupRemote(name)
}

// DeleteRemote removes a remote and its configuration.
//
// Returns CodeNotFound if the remote doesn't exist.
func (r *Repository) DeleteRemote(name string) error {
	if err := r.check(); err != nil {
		return err
	}

	if err := r.repo.DeleteRemote(name); err != nil {
		return wrapError(err, fmt.Sprintf("failed to delete remote %q", name))
	}
	return nil
}

// LookupRemote returns the remote called name.
//
// Returns CodeNotFound if the remote doesn't exist.
func (r *Repository) LookupRemote(name string) (*Remote, error) {
	if err := r.check(); err != nil {
		return nil, err
	}

	cfg, err := r.repo.Config()
	if err != nil {
		return nil, wrapError(err, "failed to read repository config")
	}

	remoteCfg, ok := cfg.Remotes[name]
	if !ok {
		return nil, wrapError(gogit.ErrRemoteNotFound, fmt.Sprintf("failed to look up remote %q", name))
	}

	return &Remote{
		repo: r,
		cfg:  remoteCfg,
		push: pushRefspecs(cfg, name),
	}, nil
}

func pushRefspecs(cfg *config.Config, name string) []string {
	return cfg.Raw.Section("remote").Subsection(name).Options.GetAll("push")
}

// AddFetchRefspec appends a fetch refspec to a remote's configuration.
//
// Returns CodeInvalidInput for a malformed refspec and CodeNotFound if the
// remote doesn't exist.
func (r *Repository) AddFetchRefspec(remote, refspec string) error {
	return r.updateRemote(remote, refspec, "failed to add fetch refspec", func(cfg *config.Config) {
		rc := cfg.Remotes[remote]
		rc.Fetch = append(rc.Fetch, config.RefSpec(refspec))
	})
}

// AddPushRefspec appends a push refspec to a remote's configuration.
// Push refspecs must name both sides, as in refs/heads/main:refs/heads/main.
func (r *Repository) AddPushRefspec(remote, refspec string) error {
	return r.updateRemote(remote, refspec, "failed to add push refspec", func(cfg *config.Config) {
		cfg.Raw.Section("remote").Subsection(remote).AddOption("push", refspec)
	})
}

func (r *Repository) updateRemote(remote, refspec, context string, update func(*config.Config)) error {
	if err := r.check(); err != nil {
		return err
	}
	if err := config.RefSpec(refspec).Validate(); err != nil {
		return wrapError(err, fmt.Sprintf("%s: invalid refspec %q", context, refspec))
	}

	cfg, err := r.repo.Config()
	if err != nil {
		return wrapError(err, "failed to read repository config")
	}
	if _, ok := cfg.Remotes[remote]; !ok {
		return wrapError(gogit.ErrRemoteNotFound, fmt.Sprintf("%s to %q", context, remote))
	}

	update(cfg)
	if err := r.repo.SetConfig(cfg); err != nil {
		return wrapError(err, "failed to save repository config")
	}
	return nil
}

// Fetch downloads objects and refs from remote. An empty remote means the
// engine's default remote. A nil or empty refspecs uses the remote's
// configured fetch refspecs.
//
// Returns CodeNotFound if the remote doesn't exist, CodeUnauthorized for
// authentication failures, CodeTimeout when the deadline passes, or
// CodeNetwork for other transport errors. Being up to date is not an error.
//
// Example:
//
//	specs := strarray.FromSlice(eng, []string{"+refs/heads/main:refs/remotes/origin/main"})
//	defer specs.Close()
//	err := repo.Fetch(ctx, "origin", specs, git.FetchOptions{Auth: auth})
func (r *Repository) Fetch(ctx context.Context, remote string, refspecs *strarray.StrArray, opts FetchOptions) error {
	if err := r.check(); err != nil {
		return err
	}

	specs, err := parseRefspecs(refspecs)
	if err != nil {
		return err
	}

	fetchOpts := &gogit.FetchOptions{
		RemoteName: r.remoteName(remote),
		RefSpecs:   specs,
		Depth:      opts.Depth,
		Force:      opts.Force,
	}
	if opts.Tags {
		fetchOpts.Tags = gogit.AllTags
	}
	if fetchOpts.Auth, err = toAuthMethod(opts.Auth); err != nil {
		return err
	}

	ctx, cancel := r.networkContext(ctx)
	defer cancel()

	err = r.remoteOps.Fetch(ctx, r.repo, fetchOpts)
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return wrapNetworkError(err, fmt.Sprintf("failed to fetch from %q", fetchOpts.RemoteName))
	}
	return nil
}

// Push uploads refs to remote. An empty remote means the engine's default
// remote. A nil or empty refspecs uses the remote's configured push refspecs,
// falling back to go-git's default.
//
// Returns CodeConflict for non-fast-forward updates (unless Force is set),
// CodeUnauthorized for authentication failures, or CodeNetwork for other
// transport errors.
func (r *Repository) Push(ctx context.Context, remote string, refspecs *strarray.StrArray, opts PushOptions) error {
	if err := r.check(); err != nil {
		return err
	}

	name := r.remoteName(remote)
	specs, err := parseRefspecs(refspecs)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		if rm, err := r.LookupRemote(name); err == nil {
			for _, s := range rm.push {
				specs = append(specs, config.RefSpec(s))
			}
		}
	}

	pushOpts := &gogit.PushOptions{
		RemoteName: name,
		RefSpecs:   specs,
		Force:      opts.Force,
	}
	if pushOpts.Auth, err = toAuthMethod(opts.Auth); err != nil {
		return err
	}

	ctx, cancel := r.networkContext(ctx)
	defer cancel()

	err = r.remoteOps.Push(ctx, r.repo, pushOpts)
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return wrapNetworkError(err, fmt.Sprintf("failed to push to %q", name))
	}
	return nil
}

func (r *Repository) remoteName(name string) string {
	if name == "" {
		return r.eng.Options().DefaultRemote
	}
	return name
}

// parseRefspecs validates every entry of refspecs.
func parseRefspecs(refspecs *strarray.StrArray) ([]config.RefSpec, error) {
	var specs []config.RefSpec
	for _, s := range refspecs.All() {
		spec := config.RefSpec(s)
		if err := spec.Validate(); err != nil {
			return nil, wrapError(err, fmt.Sprintf("invalid refspec %q", s))
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func toAuthMethod(auth Auth) (transport.AuthMethod, error) {
	if auth == nil {
		return nil, nil
	}
	method, ok := auth.(transport.AuthMethod)
	if !ok {
		return nil, invalidInput(fmt.Sprintf("unsupported auth type %T", auth), "failed to convert auth")
	}
	return method, nil
}
