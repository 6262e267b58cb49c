package util

import (
	"crypto/rand"
	"fmt"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*()"

// GenerateAccessCode produces a code of length chars drawn from codeAlphabet
// (the 72 characters A-Z, a-z, 0-9 and !@#$%^&*()) via byte-mod indexing over
// a crypto-random source. 72 does not divide 256 evenly, so the character
// distribution carries a slight modulo bias; batch uniqueness is not
// re-checked either. Both are accepted for the small batches this is used
// for.
func GenerateAccessCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	code := make([]byte, length)
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(code), nil
}
