package ledger

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

const GenesisData = "Genesis Block"

// Config controls how a Ledger seals its blocks.
type Config struct {
	Digest string           `toml:"digest"` // "xxhash" (default) or "blake2b"
	Clock  func() time.Time `toml:"-"`      // timestamp source, time.Now when nil
}

// DefaultConfig returns a Config using xxhash commitments and the wall clock.
func DefaultConfig() Config {
	return Config{
		Digest: DigestXXHash,
		Clock:  time.Now,
	}
}

// LoadConfig decodes a TOML ledger config on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode ledger config %s: %w", path, err)
	}
	if _, err := DigestByName(cfg.Digest); err != nil {
		return cfg, fmt.Errorf("invalid ledger config %s: %w", path, err)
	}
	return cfg, nil
}
