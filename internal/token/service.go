package token

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/leetguard/leetguard-server/internal/config"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// malformed input, wrong algorithm or expiry.
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token has no subject")
)

type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// NewClaims returns the claim set used for a local user session.
func NewClaims(userID uint, email string) Claims {
	return Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: strconv.FormatUint(uint64(userID), 10),
		},
	}
}

// UserID parses the subject back into a local user id.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

type Pair struct {
	AccessToken  string
	RefreshToken string
}

type Service struct {
	config *config.AuthConfig
	now    func() time.Time
}

func NewService(config *config.AuthConfig) *Service {
	return &Service{
		config: config,
		now:    time.Now,
	}
}

// WithClock returns a copy of the service reading time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	return &Service{config: s.config, now: now}
}

func (s *Service) IssueAccessToken(claims Claims) (string, error) {
	return s.sign(claims, s.config.AccessTokenDuration, []byte(s.config.AccessSecret))
}

func (s *Service) IssueRefreshToken(claims Claims) (string, error) {
	return s.sign(claims, s.config.RefreshTokenDuration, []byte(s.config.RefreshSecret))
}

func (s *Service) VerifyAccessToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, []byte(s.config.AccessSecret))
}

func (s *Service) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, []byte(s.config.RefreshSecret))
}

func (s *Service) IssuePair(claims Claims) (*Pair, error) {
	accessToken, err := s.IssueAccessToken(claims)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.IssueRefreshToken(claims)
	if err != nil {
		return nil, err
	}

	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh rotates a valid refresh token into a new pair. The presented
// token is not revoked and stays valid until its own expiry.
func (s *Service) Refresh(refreshToken string) (*Pair, *Claims, error) {
	claims, err := s.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if claims.Subject == "" {
		return nil, nil, ErrMissingSubject
	}

	pair, err := s.IssuePair(Claims{
		Email:            claims.Email,
		RegisteredClaims: jwt.RegisteredClaims{Subject: claims.Subject},
	})
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}

func (s *Service) sign(claims Claims, ttl time.Duration, key []byte) (string, error) {
	now := s.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

func (s *Service) verify(tokenString string, key []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
