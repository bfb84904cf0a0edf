package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Password reset tokens are signed with the access secret concatenated with
// the user's current password hash: they never verify as access tokens and
// stop verifying once the password changes.
func resetKey(secret, passwordHash string) []byte {
	return []byte(secret + "." + passwordHash)
}

func (s *Service) IssueResetToken(userID uint, email, passwordHash string) (string, error) {
	claims := NewClaims(userID, email)
	claims.Audience = jwt.ClaimStrings{"password_reset"}
	return s.sign(claims, s.config.ResetTokenDuration, resetKey(s.config.AccessSecret, passwordHash))
}

// PeekSubject extracts the subject of a reset token without verifying it, so
// the caller can load the password hash the token must be verified against.
func PeekSubject(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) VerifyResetToken(tokenString, passwordHash string) (*Claims, error) {
	claims, err := s.verify(tokenString, resetKey(s.config.AccessSecret, passwordHash))
	if err != nil {
		return nil, err
	}

	for _, aud := range claims.Audience {
		if aud == "password_reset" {
			return claims, nil
		}
	}
	return nil, ErrInvalidToken
}
