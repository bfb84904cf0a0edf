package oauth

import (
	"errors"

	"github.com/leetguard/leetguard-server/internal/config"
)

var ErrUnknownProvider = errors.New("unsupported oauth provider")

type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// NewDefaultRegistry registers Google and GitHub from cfg.
func NewDefaultRegistry(cfg *config.OAuthConfig) *Registry {
	return NewRegistry(
		NewGoogle(cfg.Google, cfg.HTTPTimeout),
		NewGitHub(cfg.GitHub, cfg.HTTPTimeout),
	)
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return p, nil
}
