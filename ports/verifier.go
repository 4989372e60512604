package ports

// Codec builds and picks apart challenge messages without requiring a full
// structured parse. Extraction succeeding says nothing about signature
// validity; it only feeds the nonce comparison and error reporting.
type Codec interface {
	// ExtractNonce returns the first nonce found in the message, if any.
	ExtractNonce(message string) (string, bool)
	// ExtractAddress returns the claimed address from the message body, if
	// it is a well-formed 0x-prefixed 40-hex-char address.
	ExtractAddress(message string) (string, bool)
}

// Verifier proves that a signature over a challenge message was produced by
// the key behind the address the message claims. Verify returns the
// recovered address in EIP-55 form; every failure path returns an error —
// an address is never trusted without cryptographic proof.
type Verifier interface {
	Verify(message, signature string) (string, error)
}
