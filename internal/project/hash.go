package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a SHA-256 content hash used as cache key material.
type Digest [sha256.Size]byte

// HashBytes digests raw file content.
func HashBytes(data []byte) Digest {
	return sha256.Sum256(data)
}

// Hex renders the digest for file names and logs.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether the digest is unset.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}

// Combine folds several digests into one aggregate key.
func Combine(parts ...Digest) Digest {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
