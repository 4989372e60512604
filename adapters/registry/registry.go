package registry

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
)

// Entry is one allow-list item: an Ethereum address, an ENS name, or both.
type Entry struct {
	Address string `json:"address,omitempty"`
	ENS     string `json:"ens,omitempty"`
}

// UnmarshalJSON also accepts the legacy bare-string form, treating the
// string as an address when it looks like one and as an ENS name otherwise.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if common.IsHexAddress(s) {
			e.Address = s
		} else {
			e.ENS = s
		}
		return nil
	}

	type plain Entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Entry(p)
	return nil
}

type fileConfig struct {
	Admins []Entry `json:"admins"`
}

// Registry is a static admin allow-list. Membership is case-insensitive
// over both addresses and ENS names. ENS names are matched literally;
// resolution is out of scope.
type Registry struct {
	members map[string]struct{}
}

// New builds a registry from entries. Entries with neither field set are
// ignored.
func New(entries []Entry) *Registry {
	members := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Address != "" {
			members[strings.ToLower(e.Address)] = struct{}{}
		}
		if e.ENS != "" {
			members[strings.ToLower(e.ENS)] = struct{}{}
		}
	}
	return &Registry{members: members}
}

// LoadFile reads the `{"admins": [...]}` allow-list from path. Any error —
// missing file, bad JSON, admins not an array — yields an empty registry:
// a broken config must never grant anyone admin.
func LoadFile(path string) *Registry {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("admin registry unreadable, failing closed")
		return New(nil)
	}

	var cfg fileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("admin registry malformed, failing closed")
		return New(nil)
	}

	reg := New(cfg.Admins)
	log.Info().Int("entries", len(reg.members)).Str("path", path).Msg("admin registry loaded")
	return reg
}

// IsAdmin reports allow-list membership for an address or ENS name.
// Empty identities are never admin.
func (r *Registry) IsAdmin(identity string) bool {
	if identity == "" {
		return false
	}
	_, ok := r.members[strings.ToLower(identity)]
	return ok
}
