// Package sessionkey derives the storage key of a session from its id, so
// that a leaked storage dump cannot be replayed as a cookie.
package sessionkey

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hasher computes keyed BLAKE2b-256 digests of session ids.
type Hasher struct {
	key    []byte
	prefix string
}

// New returns a Hasher keyed with secret. Keys longer than BLAKE2b allows are
// compressed first. prefix is prepended to every derived key.
func New(secret, prefix string) *Hasher {
	key := []byte(secret)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	return &Hasher{key: key, prefix: prefix}
}

// Key returns the storage key for sid.
func (h *Hasher) Key(sid string) string {
	// New256 only fails for keys over 64 bytes, which New rules out.
	d, _ := blake2b.New256(h.key)
	d.Write([]byte(sid))
	return h.prefix + hex.EncodeToString(d.Sum(nil))
}
