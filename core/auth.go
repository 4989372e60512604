package core

import "time"

// SiweSession is the authentication payload attached to a session after a
// signed challenge has been verified and the address admitted.
type SiweSession struct {
	Address  string    `json:"address"`   // EIP-55 form, case preserved from recovery
	Domain   string    `json:"domain"`    // Domain the challenge was issued for
	ChainID  int       `json:"chain_id"`  // Chain the challenge named
	IssuedAt time.Time `json:"issued_at"` // When verification succeeded
}

// Session is the server-side record keyed by the opaque cookie-delivered
// identifier. Nonce is present between challenge issuance and verification;
// Siwe is present only after a successful verify.
type Session struct {
	ID        string       `json:"id"`
	Nonce     string       `json:"nonce,omitempty"`
	Siwe      *SiweSession `json:"siwe,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// Authenticated reports whether the session carries a verified identity.
func (s *Session) Authenticated() bool {
	return s != nil && s.Siwe != nil
}

// AuthStatus is the request-scoped authentication state derived from a
// session and a fresh registry lookup. It is computed per request and
// never persisted.
type AuthStatus struct {
	Authenticated bool   `json:"authenticated"`
	Address       string `json:"address,omitempty"`
	IsAdmin       bool   `json:"isAdmin,omitempty"`
}
