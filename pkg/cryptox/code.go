package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// Digit counts for numeric one-time codes.
const (
	OTPDigits    = 6
	TicketDigits = 8
)

// Random token sizes in bytes, before encoding.
const (
	TokenSize128 = 16
	TokenSize256 = 32
)

// GenerateNumericCode returns a uniformly random decimal code with exactly the
// requested number of digits, leading zeros included.
func GenerateNumericCode(digits int) (string, error) {
	if digits <= 0 || digits > 18 {
		return "", fmt.Errorf("cryptox: unsupported code length %d", digits)
	}

	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("cryptox: failed to generate code: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n), nil
}

// GenerateToken returns size random bytes, base64url encoded without padding.
// Used for signing key ids.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: unsupported token size %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
