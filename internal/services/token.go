package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// charset defines the character set used for generating tokens.
// 62 alphanumeric characters give 62^7 (~3.5 trillion) combinations at the minimum length.
const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// MinTokenLength is the shortest token the generator will produce.
const MinTokenLength = 7

// TokenGenerator produces candidate tokens for new links. Uniqueness is
// enforced by the Link Store, not by the generator.
type TokenGenerator interface {
	Generate() (string, error)
}

// RandomTokenGenerator draws tokens from crypto/rand.
type RandomTokenGenerator struct {
	length int
}

// NewRandomTokenGenerator returns a generator for tokens of the given length,
// raised to MinTokenLength when shorter.
func NewRandomTokenGenerator(length int) *RandomTokenGenerator {
	if length < MinTokenLength {
		length = MinTokenLength
	}
	return &RandomTokenGenerator{length: length}
}

// Generate returns a new random alphanumeric token.
func (g *RandomTokenGenerator) Generate() (string, error) {
	code := make([]byte, g.length)
	max := big.NewInt(int64(len(charset)))
	for i := range code {
		num, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}
