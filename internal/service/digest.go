package service

import (
	"crypto/sha256"
	"crypto/subtle"
)

// digest is what the session store keeps instead of the raw refresh token.
func digest(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func equalDigest(a, b []byte) bool {
	return len(a) != 0 && subtle.ConstantTimeCompare(a, b) == 1
}
