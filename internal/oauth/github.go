package oauth

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/oauth2/github"

	"github.com/leetguard/leetguard-server/internal/config"
)

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
	githubAccept    = "application/vnd.github.v3+json"
)

type GitHub struct {
	base
	userURL   string
	emailsURL string
}

func NewGitHub(cfg config.ProviderConfig, timeout time.Duration) *GitHub {
	endpoint := github.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	g := &GitHub{
		base:      newBase("github", "GitHub", cfg.ClientID, cfg.ClientSecret, endpoint, timeout),
		userURL:   githubUserURL,
		emailsURL: githubEmailsURL,
	}
	if cfg.ProfileURL != "" {
		g.userURL = cfg.ProfileURL
	}
	if cfg.EmailsURL != "" {
		g.emailsURL = cfg.EmailsURL
	}
	return g
}

type githubUser struct {
	ID        json.Number `json:"id"`
	Login     string      `json:"login"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	AvatarURL string      `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHub) Authenticate(ctx context.Context, code, redirectURI string) (*Profile, error) {
	client, err := g.exchange(ctx, code, redirectURI)
	if err != nil {
		return nil, err
	}

	var u githubUser
	if err := getJSON(ctx, client, g.userURL, githubAccept, &u); err != nil {
		return nil, g.fail(ErrProfileFetch, err)
	}

	// The public profile email is optional; the primary address wins when the
	// emails endpoint answers.
	var emails []githubEmail
	if err := getJSON(ctx, client, g.emailsURL, githubAccept, &emails); err == nil {
		for _, e := range emails {
			if e.Primary {
				u.Email = e.Email
				break
			}
		}
	}
	if u.Email == "" {
		return nil, &Error{Provider: g.display, Err: ErrNoEmail}
	}

	name := u.Name
	if name == "" {
		name = u.Login
	}
	return &Profile{ID: u.ID.String(), Email: u.Email, Name: name, Picture: u.AvatarURL}, nil
}
