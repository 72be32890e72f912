package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generate returns a random numeric code of the given length, left-padded
// with zeros. Uses crypto/rand; codes are uniform over [0, 10^length).
func Generate(length int) (string, error) {
	if length < 4 || length > 10 {
		return "", fmt.Errorf("otp length %d out of range", length)
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
