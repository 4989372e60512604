package siwe

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	siwego "github.com/spruceid/siwe-go"

	"github.com/vitrin-shop/vitrin/core"
)

// Verifier checks EIP-191 personal-sign signatures over EIP-4361 messages.
//
// The primary path runs the structured siwe-go parser and its EIP-191
// verification. When the strict grammar rejects a message, the fallback
// path extracts the claimed address by line position and recovers the
// signer manually. Both paths demand cryptographic proof; a message is
// never trusted on its address line alone.
type Verifier struct {
	domain string
}

// NewVerifier creates a verifier. A non-empty domain is enforced against
// the challenge preamble on both verification paths.
func NewVerifier(domain string) *Verifier {
	return &Verifier{domain: domain}
}

// Verify returns the recovered signer address in EIP-55 form.
func (v *Verifier) Verify(message, signature string) (string, error) {
	parsed, err := siwego.ParseMessage(message)
	if err != nil {
		return v.verifyFallback(message, signature)
	}

	if v.domain != "" && parsed.GetDomain() != v.domain {
		return "", fmt.Errorf("%w: got %q, want %q", core.ErrDomainMismatch, parsed.GetDomain(), v.domain)
	}

	if ok, err := parsed.ValidNow(); !ok {
		return "", fmt.Errorf("%w: message not valid now: %v", core.ErrInvalidSignature, err)
	}

	pub, err := parsed.VerifyEIP191(signature)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrInvalidSignature, err)
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if !strings.EqualFold(recovered.Hex(), parsed.GetAddress().Hex()) {
		return "", fmt.Errorf("%w: recovered %s, message claims %s",
			core.ErrInvalidSignature, recovered.Hex(), parsed.GetAddress().Hex())
	}

	return recovered.Hex(), nil
}

// verifyFallback recovers the signer from the raw message bytes when the
// structured parser rejects the message shape.
func (v *Verifier) verifyFallback(message, signature string) (string, error) {
	claimed, ok := Codec{}.ExtractAddress(message)
	if !ok {
		return "", core.ErrMissingAddress
	}

	if domain := extractDomain(message); v.domain != "" && domain != "" && domain != v.domain {
		return "", fmt.Errorf("%w: got %q, want %q", core.ErrDomainMismatch, domain, v.domain)
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("%w: decode signature: %v", core.ErrInvalidSignature, err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("%w: signature must be 65 bytes, got %d", core.ErrInvalidSignature, len(sig))
	}

	// Wallets emit v as 27/28 per personal_sign; SigToPub wants 0/1.
	recID := make([]byte, 65)
	copy(recID, sig)
	if recID[64] >= 27 {
		recID[64] -= 27
	}

	pub, err := crypto.SigToPub(personalSignHash([]byte(message)), recID)
	if err != nil {
		return "", fmt.Errorf("%w: recover public key: %v", core.ErrInvalidSignature, err)
	}

	recovered := crypto.PubkeyToAddress(*pub)
	if !strings.EqualFold(recovered.Hex(), claimed) {
		return "", fmt.Errorf("%w: recovered %s, message claims %s",
			core.ErrInvalidSignature, recovered.Hex(), claimed)
	}

	return recovered.Hex(), nil
}

// personalSignHash computes the ERC-191 signed-message hash:
// keccak256("\x19Ethereum Signed Message:\n" + len(message) + message).
func personalSignHash(data []byte) []byte {
	msg := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(data), data)
	return crypto.Keccak256([]byte(msg))
}
