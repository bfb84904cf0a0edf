package oauth

import (
	"context"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/leetguard/leetguard-server/internal/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type Google struct {
	base
	profileURL string
}

func NewGoogle(cfg config.ProviderConfig, timeout time.Duration) *Google {
	endpoint := google.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	profileURL := googleUserInfoURL
	if cfg.ProfileURL != "" {
		profileURL = cfg.ProfileURL
	}
	return &Google{
		base:       newBase("google", "Google", cfg.ClientID, cfg.ClientSecret, endpoint, timeout),
		profileURL: profileURL,
	}
}

type googleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (g *Google) Authenticate(ctx context.Context, code, redirectURI string) (*Profile, error) {
	client, err := g.exchange(ctx, code, redirectURI)
	if err != nil {
		return nil, err
	}

	var u googleUser
	if err := getJSON(ctx, client, g.profileURL, "application/json", &u); err != nil {
		return nil, g.fail(ErrProfileFetch, err)
	}
	if u.Email == "" {
		return nil, &Error{Provider: g.display, Err: ErrNoEmail}
	}

	return &Profile{ID: u.ID, Email: u.Email, Name: u.Name, Picture: u.Picture}, nil
}
