package registry

import (
	"github.com/drewdunne/samwise/internal/config"
	"github.com/drewdunne/samwise/internal/provider"
	"github.com/drewdunne/samwise/internal/provider/github"
	"github.com/drewdunne/samwise/internal/provider/gitlab"
)

// Registry manages issue source instances.
type Registry struct {
	providers map[string]provider.IssueSource
}

// New creates a new provider registry from config.
func New(cfg *config.Config) *Registry {
	r := &Registry{
		providers: make(map[string]provider.IssueSource),
	}

	if gh := cfg.Providers.GitHub; gh.Token != "" {
		var opts []github.Option
		if gh.BaseURL != "" {
			opts = append(opts, github.WithBaseURL(gh.BaseURL))
		}
		r.providers["github"] = github.New(gh.Token, opts...)
	}

	if gl := cfg.Providers.GitLab; gl.Token != "" {
		var opts []gitlab.Option
		if gl.BaseURL != "" {
			opts = append(opts, gitlab.WithBaseURL(gl.BaseURL))
		}
		r.providers["gitlab"] = gitlab.New(gl.Token, opts...)
	}

	return r
}

// Get returns the provider for the given name, or nil if not configured.
func (r *Registry) Get(name string) provider.IssueSource {
	return r.providers[name]
}

// List returns all configured provider names.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
