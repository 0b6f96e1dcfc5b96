// Package config loads server.yaml, the same top-level config file shape
// the teacher's main.go reads, generalized to this server's own field
// set (listen address, MOTD, icon path, max players) and with its
// player-count-simulation/subscription-tunnel fields dropped since they
// belonged to the masquerade/tunnel feature this rework does not carry.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server.yaml shape.
type Config struct {
	ListenAddress string `yaml:"listen_address"`

	VersionName string `yaml:"version_name"`
	ProtocolID  int32  `yaml:"protocol_id"`
	IconPath    string `yaml:"icon_path"`
	MOTD        string `yaml:"motd"`
	MaxPlayers  int    `yaml:"max_players"`

	EnforcesSecureChat bool `yaml:"enforces_secure_chat"`
	PreviewsChat       bool `yaml:"previews_chat"`
}

// applyDefaults mirrors the teacher's own default-filling in main()
// (protocol id and max players get sensible fallbacks when left at their
// YAML zero value).
func (c *Config) applyDefaults() {
	if c.ListenAddress == "" {
		c.ListenAddress = "0.0.0.0:25565"
	}
	if c.ProtocolID == 0 {
		c.ProtocolID = 767
	}
	if c.VersionName == "" {
		c.VersionName = "1.21"
	}
	if c.MaxPlayers == 0 {
		c.MaxPlayers = 20
	}
}

// Load reads and parses path, applying defaults for any omitted field.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var c Config
	if err := yaml.NewDecoder(f).Decode(&c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.applyDefaults()
	return &c, nil
}
