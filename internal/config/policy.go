package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// PolicyFile is the optional capability override file:
//
//	[capabilities]
//	"product:update" = ["admin"]
//	"cyclecount:create" = ["admin", "manager"]
type PolicyFile struct {
	Capabilities map[string][]string `toml:"capabilities"`
}

// LoadPolicy decodes a TOML policy file
func LoadPolicy(filename string) (*PolicyFile, error) {
	policy := &PolicyFile{}
	meta, err := toml.DecodeFile(filename, policy)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown keys in policy file: %v", undecoded)
	}
	return policy, nil
}
