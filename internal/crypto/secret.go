package crypto

import "sync"

// SecretBuffer owns a byte sequence that is overwritten with zeros when
// released. This is best effort: it cannot stop the OS from swapping the
// page or the runtime from having made earlier copies, and it must not be
// treated as an absolute guarantee.
type SecretBuffer struct {
	mu        sync.Mutex
	data      []byte
	destroyed bool
}

// NewSecret copies b into an owned buffer. The caller should zero its own
// copy afterwards; Wipe does that.
func NewSecret(b []byte) *SecretBuffer {
	owned := make([]byte, len(b))
	copy(owned, b)
	return &SecretBuffer{data: owned}
}

// NewSecretFromString copies s into an owned buffer. The original string
// cannot be erased; prefer the []byte form where the caller controls it.
func NewSecretFromString(s string) *SecretBuffer {
	return NewSecret([]byte(s))
}

// Bytes exposes the backing storage. The slice aliases the buffer and is
// only valid until Destroy.
func (s *SecretBuffer) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return nil
	}
	return s.data
}

// Len returns the secret length, or 0 after Destroy.
func (s *SecretBuffer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return 0
	}
	return len(s.data)
}

// Destroy zeroizes the backing storage and releases it. Safe to call more
// than once; every exit path that holds a SecretBuffer should defer it.
func (s *SecretBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	Wipe(s.data)
	s.data = nil
	s.destroyed = true
}

// Wipe overwrites a byte slice with zeros.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
