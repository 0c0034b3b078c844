package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeSpace covers the 6-digit range [100000, 999999].
const codeSpace = 900000

// NewCode generates a 6-digit numeric one-time code, uniform over
// [100000, 999999].
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
