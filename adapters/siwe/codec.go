package siwe

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	nonceRe   = regexp.MustCompile(`Nonce: ([A-Za-z0-9]+)`)
	addressRe = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
)

// MessageParams are the fields serialized into an EIP-4361 challenge.
type MessageParams struct {
	Domain    string
	Address   string
	Statement string
	URI       string
	Version   string
	ChainID   int
	Nonce     string
	IssuedAt  time.Time
}

// BuildMessage serializes an EIP-4361 challenge. The wallet signature
// covers these exact bytes, so the layout is fixed: domain preamble on
// line one, address on line two, blank line, optional statement followed
// by a blank line, then the Key: value block.
func BuildMessage(p MessageParams) string {
	address := p.Address
	if common.IsHexAddress(address) {
		address = common.HexToAddress(address).Hex()
	}
	version := p.Version
	if version == "" {
		version = "1"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s wants you to sign in with your Ethereum account:\n", p.Domain)
	fmt.Fprintf(&b, "%s\n", address)
	fmt.Fprintf(&b, "\n")
	if p.Statement != "" {
		fmt.Fprintf(&b, "%s\n", p.Statement)
		fmt.Fprintf(&b, "\n")
	}
	fmt.Fprintf(&b, "URI: %s\n", p.URI)
	fmt.Fprintf(&b, "Version: %s\n", version)
	fmt.Fprintf(&b, "Chain ID: %d\n", p.ChainID)
	fmt.Fprintf(&b, "Nonce: %s\n", p.Nonce)
	fmt.Fprintf(&b, "Issued At: %s", p.IssuedAt.UTC().Format(time.RFC3339))
	return b.String()
}

// Codec extracts challenge fields independently of the structured parser,
// so nonce comparison and error reporting work even for messages the
// strict EIP-4361 grammar rejects.
type Codec struct{}

// ExtractNonce returns the first `Nonce: <value>` match in the message.
func (Codec) ExtractNonce(message string) (string, bool) {
	m := nonceRe.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractAddress returns the trimmed second line of the message when it is
// a 0x-prefixed 40-hex-char address.
func (Codec) ExtractAddress(message string) (string, bool) {
	lines := strings.Split(message, "\n")
	if len(lines) < 2 {
		return "", false
	}
	addr := strings.TrimSpace(lines[1])
	if !addressRe.MatchString(addr) {
		return "", false
	}
	return addr, true
}

// extractDomain pulls the domain off the EIP-4361 preamble line. Empty when
// the preamble is absent.
func extractDomain(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	if i := strings.Index(line, " wants you to sign in"); i > 0 {
		return line[:i]
	}
	return ""
}
