package client

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer produces EIP-191 personal-sign signatures for a wallet address.
// Implementations may hold a local key or delegate to an external wallet.
type Signer interface {
	Address() string
	// SignMessage signs the exact message bytes and returns the
	// 0x-prefixed 65-byte signature with the recovery id in 27/28 form.
	SignMessage(message []byte) (string, error)
}

// LocalSigner signs with an in-process secp256k1 key.
type LocalSigner struct {
	key *ecdsa.PrivateKey
}

// NewLocalSigner wraps an existing private key.
func NewLocalSigner(key *ecdsa.PrivateKey) *LocalSigner {
	return &LocalSigner{key: key}
}

// GenerateSigner creates a signer with a fresh random key.
func GenerateSigner() (*LocalSigner, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &LocalSigner{key: key}, nil
}

// Address returns the wallet address in EIP-55 form.
func (s *LocalSigner) Address() string {
	return crypto.PubkeyToAddress(s.key.PublicKey).Hex()
}

// SignMessage signs message per ERC-191 personal_sign.
func (s *LocalSigner) SignMessage(message []byte) (string, error) {
	hash := crypto.Keccak256([]byte(fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)))
	sig, err := crypto.Sign(hash, s.key)
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}
	// crypto.Sign yields v in {0,1}; wallets speak 27/28.
	sig[64] += 27
	return hexutil.Encode(sig), nil
}
