package utils

import (
	"crypto/rand"
	"math/big"
)

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DocumentIDLength is the length of generated document identifiers
const DocumentIDLength = 20

// GenerateRandomString returns a random alphanumeric string of the given length
func GenerateRandomString(length int) (string, error) {
	limit := big.NewInt(int64(len(idAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = idAlphabet[n.Int64()]
	}
	return string(b), nil
}

// NewDocumentID generates an opaque identifier shaped like a Firestore auto id.
// Ids are random so their short prefixes spread evenly.
func NewDocumentID() string {
	id, err := GenerateRandomString(DocumentIDLength)
	if err != nil {
		panic(err)
	}
	return id
}

// ShortID truncates an identifier to n characters for display in links
func ShortID(id string, n int) string {
	if n <= 0 || len(id) <= n {
		return id
	}
	return id[:n]
}

// IsToken reports whether s only holds characters that can appear in an id.
func IsToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_') {
			return false
		}
	}
	return true
}
