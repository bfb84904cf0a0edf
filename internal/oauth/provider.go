package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

var (
	ErrTokenExchange = errors.New("token exchange failed")
	ErrProfileFetch  = errors.New("profile fetch failed")
	ErrNoEmail       = errors.New("provider returned no email")
)

// Error ties a sentinel to the provider it came from. Its message is safe to
// return to clients.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrTokenExchange):
		return "Failed to exchange code for token"
	case errors.Is(e.Err, ErrProfileFetch):
		return "Failed to get user info from " + e.Provider
	case errors.Is(e.Err, ErrNoEmail):
		return "Email not provided by " + e.Provider
	default:
		return e.Provider + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Profile is the provider identity normalized across providers.
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type Provider interface {
	// Name is the route key, e.g. "google".
	Name() string
	// Authenticate exchanges an authorization code and fetches the profile.
	Authenticate(ctx context.Context, code, redirectURI string) (*Profile, error)
}

// base holds the code exchange shared by every provider.
type base struct {
	name         string
	display      string
	clientID     string
	clientSecret string
	endpoint     oauth2.Endpoint
	client       *http.Client
}

func newBase(name, display, clientID, clientSecret string, endpoint oauth2.Endpoint, timeout time.Duration) base {
	// Credentials go in the form body; neither provider needs basic auth.
	endpoint.AuthStyle = oauth2.AuthStyleInParams
	return base{
		name:         name,
		display:      display,
		clientID:     clientID,
		clientSecret: clientSecret,
		endpoint:     endpoint,
		client:       &http.Client{Timeout: timeout},
	}
}

func (b *base) Name() string { return b.name }

func (b *base) fail(err error, cause error) error {
	return &Error{Provider: b.display, Err: fmt.Errorf("%w: %v", err, cause)}
}

// exchange returns an HTTP client authorized with the provider access token.
func (b *base) exchange(ctx context.Context, code, redirectURI string) (*http.Client, error) {
	cfg := &oauth2.Config{
		ClientID:     b.clientID,
		ClientSecret: b.clientSecret,
		Endpoint:     b.endpoint,
		RedirectURL:  redirectURI,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, b.client)
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, b.fail(ErrTokenExchange, err)
	}
	return cfg.Client(ctx, tok), nil
}

func getJSON(ctx context.Context, client *http.Client, url, accept string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", accept)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
