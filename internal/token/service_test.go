package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leetguard/leetguard-server/internal/config"
)

func newTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		AccessSecret:         "test-access-secret",
		RefreshSecret:        "test-refresh-secret",
		AccessTokenDuration:  30 * time.Minute,
		RefreshTokenDuration: 7 * 24 * time.Hour,
		ResetTokenDuration:   time.Hour,
	}
}

func newTestService() *Service {
	return NewService(newTestConfig())
}

func TestService_AccessToken(t *testing.T) {
	svc := newTestService()

	token, err := svc.IssueAccessToken(NewClaims(42, "a@b.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "a@b.com", claims.Email)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	// Expiry is now + configured minutes.
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestService_SecretSeparation(t *testing.T) {
	svc := newTestService()
	claims := NewClaims(7, "sep@example.com")

	access, err := svc.IssueAccessToken(claims)
	require.NoError(t, err)
	refresh, err := svc.IssueRefreshToken(claims)
	require.NoError(t, err)

	_, err = svc.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyRefreshToken(refresh)
	assert.NoError(t, err)
}

func TestService_VerifyFailures(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name       string
		setupToken func() string
	}{
		{
			name: "expired token",
			setupToken: func() string {
				past := svc.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })
				token, _ := past.IssueAccessToken(NewClaims(1, ""))
				return token
			},
		},
		{
			name: "malformed token",
			setupToken: func() string {
				return "invalid.token.here"
			},
		},
		{
			name: "empty token",
			setupToken: func() string {
				return ""
			},
		},
		{
			name: "foreign secret",
			setupToken: func() string {
				cfg := newTestConfig()
				cfg.AccessSecret = "someone-else"
				token, _ := NewService(cfg).IssueAccessToken(NewClaims(1, ""))
				return token
			},
		},
		{
			name: "unexpected algorithm",
			setupToken: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS512, NewClaims(1, ""))
				signed, _ := token.SignedString([]byte(newTestConfig().AccessSecret))
				return signed
			},
		},
		{
			name: "missing expiry",
			setupToken: func() string {
				token := jwt.NewWithClaims(jwt.SigningMethodHS256, NewClaims(1, ""))
				signed, _ := token.SignedString([]byte(newTestConfig().AccessSecret))
				return signed
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.VerifyAccessToken(tt.setupToken())
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestService_Refresh(t *testing.T) {
	svc := newTestService()

	pair, err := svc.IssuePair(NewClaims(9, "r@example.com"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name:  "valid refresh token",
			token: pair.RefreshToken,
		},
		{
			name:    "access token presented as refresh token",
			token:   pair.AccessToken,
			wantErr: true,
		},
		{
			name:    "garbage",
			token:   "nope",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, claims, err := svc.Refresh(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "9", claims.Subject)

			access, err := svc.VerifyAccessToken(next.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, "9", access.Subject)
			assert.Equal(t, "r@example.com", access.Email)

			_, err = svc.VerifyRefreshToken(next.RefreshToken)
			assert.NoError(t, err)
		})
	}
}

func TestService_RefreshDoesNotRevoke(t *testing.T) {
	svc := newTestService()

	pair, err := svc.IssuePair(NewClaims(3, ""))
	require.NoError(t, err)

	_, _, err = svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)

	// No revocation list: the old refresh token still works.
	_, _, err = svc.Refresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestClaims_UserID(t *testing.T) {
	tests := []struct {
		subject string
		want    uint
		wantErr bool
	}{
		{subject: "15", want: 15},
		{subject: "0", wantErr: true},
		{subject: "", wantErr: true},
		{subject: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: tt.subject}}
			id, err := c.UserID()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestService_RefreshWithoutSubject(t *testing.T) {
	svc := newTestService()

	refresh, err := svc.IssueRefreshToken(Claims{Email: "nosub@example.com"})
	require.NoError(t, err)

	_, _, err = svc.Refresh(refresh)
	assert.ErrorIs(t, err, ErrMissingSubject)
}
