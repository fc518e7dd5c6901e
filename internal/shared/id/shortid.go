package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12

	// SecretPrefix marks API key secrets. The first PrefixDisplayLength
	// characters of a secret double as the non-secret lookup prefix and the
	// gateway consumer name.
	SecretPrefix        = "ak_"
	SecretRandomLength  = 29
	PrefixDisplayLength = 8
)

// Generate creates a random short ID with the specified length using Base62
// encoding. The generated ID is cryptographically random and URL-safe.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// MustGenerate creates a random short ID and panics on error.
func MustGenerate(length int) string {
	id, err := Generate(length)
	if err != nil {
		panic(err)
	}
	return id
}

// NewSecret generates a new API key secret ("ak_" + 29 base62 characters).
func NewSecret() (string, error) {
	random, err := Generate(SecretRandomLength)
	if err != nil {
		return "", err
	}
	return SecretPrefix + random, nil
}

// DisplayPrefix returns the non-secret leading portion of a secret, safe to
// store and show in full.
func DisplayPrefix(secret string) string {
	if len(secret) < PrefixDisplayLength {
		return secret
	}
	return secret[:PrefixDisplayLength]
}
