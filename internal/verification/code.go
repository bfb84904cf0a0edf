package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const codeSpace = 1000000

// GenerateCode returns a zero-padded 6-digit code drawn uniformly from
// 000000-999999. Codes are not checked for reuse.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
