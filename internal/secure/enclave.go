// Package secure keeps the Connect token encrypted in memory for the life
// of the process. It wraps memguard.Enclave: the token is encrypted at rest,
// mlocked against swapping, and only decrypted into a guarded buffer for the
// duration of a single HTTP request.
package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Token is a protected holder for the Connect bearer token.
type Token struct {
	enclave *memguard.Enclave
	mu      sync.RWMutex
	// destroyed allows idempotent Destroy() calls and prevents use after
	// destroy
	destroyed bool
}

// NewToken seals the given token string into a protected enclave. The input
// slice backing the string is not retained.
func NewToken(value string) *Token {
	return &Token{
		enclave: memguard.NewEnclave([]byte(value)),
	}
}

// Open decrypts the token into a locked buffer. The caller MUST call
// Destroy() on the returned buffer as soon as the token has been used.
//
//	locked, err := tok.Open()
//	if err != nil {
//	    return err
//	}
//	defer locked.Destroy()
//	req.Header.Set("Authorization", "Bearer "+locked.String())
func (t *Token) Open() (*memguard.LockedBuffer, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.destroyed || t.enclave == nil {
		return memguard.NewBufferFromBytes([]byte{}), nil
	}

	return t.enclave.Open()
}

// Destroy marks the token as destroyed and prevents further use. Idempotent.
// For complete cleanup of all guarded memory at exit, call memguard.Purge()
// in main.
func (t *Token) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.destroyed {
		return
	}

	t.enclave = nil
	t.destroyed = true
}
