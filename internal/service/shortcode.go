package service

import (
	"math/rand/v2"
)

const (
	shortCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// ShortCodeLength is the initial length of generated recipe short-codes.
	ShortCodeLength = 8

	// shortCodeAttemptsPerLength bounds the retry loop: after this many
	// collisions at one length the generator grows the code by one
	// character instead of looping forever on a saturated space.
	shortCodeAttemptsPerLength = 10

	// shortCodeMaxLength is a hard stop; hitting it means the code space
	// is pathologically full and the create fails outright.
	shortCodeMaxLength = 12
)

// NewShortCode returns a random alphanumeric code of the given length.
// Uniqueness is not guaranteed here; the caller re-validates at insert
// time and retries on a unique-constraint violation.
func NewShortCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = shortCodeAlphabet[rand.IntN(len(shortCodeAlphabet))]
	}
	return string(b)
}
