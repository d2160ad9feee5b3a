package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	General GeneralConfig `toml:"general"`
	Catalog CatalogConfig `toml:"catalog"`
	Auth    AuthConfig    `toml:"auth"`
	Player  PlayerConfig  `toml:"player"`
	Storage StorageConfig `toml:"storage"`
	Lyrics  LyricsConfig  `toml:"lyrics"`
	Server  ServerConfig  `toml:"server"`
}

// GeneralConfig contains presentation and queue behavior settings.
type GeneralConfig struct {
	SongsToDisplay int  `toml:"songs_to_display"`
	Radio          bool `toml:"radio"`
}

// CatalogConfig points at the ytmusicapi proxy.
type CatalogConfig struct {
	BaseURL  string `toml:"base_url"`
	AuthFile string `toml:"auth_file"`
}

// AuthConfig controls whether requests to the catalog carry credentials.
type AuthConfig struct {
	Enabled bool   `toml:"enabled"`
	Method  string `toml:"method"`
}

// PlayerConfig describes the external media player invocation.
type PlayerConfig struct {
	Binary         string   `toml:"binary"`
	Flags          []string `toml:"flags"`
	ResolveStreams bool     `toml:"resolve_streams"`
}

// StorageConfig locates the local stores.
type StorageConfig struct {
	PlaylistsDir string `toml:"playlists_dir"`
	DislikesFile string `toml:"dislikes_file"`
	Database     string `toml:"database"`
}

// LyricsConfig controls the LRCLIB lyrics lookup.
type LyricsConfig struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
}

// ServerConfig contains settings for the OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port string for the callback server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values absent from the file keep their defaults, so a partial config
// (say, only [player]) is valid.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyDefaults()
	return config, nil
}

// SaveConfig writes the configuration to the specified path as TOML.
func SaveConfig(path string, config *Config) error {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyDefaults()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyDefaults fills zero values so a partial config file still works.
func (c *Config) applyDefaults() {
	if c.General.SongsToDisplay <= 0 {
		c.General.SongsToDisplay = 5
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = "http://127.0.0.1:8000"
	}
	if c.Player.Binary == "" {
		c.Player.Binary = "mpv"
	}
	if len(c.Player.Flags) == 0 {
		c.Player.Flags = []string{"--no-video"}
	}
	if c.Storage.PlaylistsDir == "" {
		c.Storage.PlaylistsDir = "playlists"
	}
	if c.Storage.DislikesFile == "" {
		c.Storage.DislikesFile = "dislikes.json"
	}
	if c.Storage.Database == "" {
		c.Storage.Database = "./ytm.db"
	}
	if c.Lyrics.BaseURL == "" {
		c.Lyrics.BaseURL = "https://lrclib.net/api"
	}
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
}
