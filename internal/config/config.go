package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Bot contains Telegram bot credentials.
type Bot struct {
	Token    string `toml:"token"`
	Username string `toml:"username"`
}

// Admin lists operator user IDs allowed to use the admin surface.
type Admin struct {
	IDs []int64 `toml:"ids"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey          string `toml:"api_key"`
	BaseURL         string `toml:"base_url"`
	ImageBaseURL    string `toml:"image_base_url"`
	BackdropBaseURL string `toml:"backdrop_base_url"`
	Language        string `toml:"language"`
}

// OMDB contains the optional OMDb rating-enrichment settings.
type OMDB struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// Jikan contains the MyAnimeList (Jikan v4) endpoint settings.
type Jikan struct {
	BaseURL string `toml:"base_url"`
}

// AniList contains the AniList GraphQL endpoint settings.
type AniList struct {
	URL string `toml:"url"`
}

// Session contains the FSM state store settings.
type Session struct {
	RedisURL   string `toml:"redis_url"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// Store contains the durable user/template database settings.
type Store struct {
	Path string `toml:"path"`
}

// Card contains image-compositor settings.
type Card struct {
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`
}

// Limits contains per-user quota and listing caps.
type Limits struct {
	FreePostsPerDay    int `toml:"free_posts_per_day"`
	PremiumPostsPerDay int `toml:"premium_posts_per_day"`
	MaxSearchResults   int `toml:"max_search_results"`
}

// Notifications contains configuration for ntfy operator notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Web contains the keep-alive health endpoint settings.
type Web struct {
	Enabled bool   `toml:"enabled"`
	Bind    string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Defaults contains the fallback preference strings used when a user has not
// configured their own.
type Defaults struct {
	Quality string `toml:"quality"`
	Audio   string `toml:"audio"`
}

// Config encapsulates all configuration values for Marquee.
//
// Configuration sections by subsystem:
//   - Bot: Telegram credentials
//   - Admin: operator user IDs
//   - TMDB/OMDB/Jikan/AniList: catalog provider endpoints and keys
//   - Session: Redis-backed FSM store and TTL
//   - Store: SQLite user/template database
//   - Card: thumbnail compositor fetch timeout
//   - Limits: daily post quotas and search caps
//   - Notifications: ntfy operator push settings
//   - Web: keep-alive health endpoint
//   - Logging: log format, level, and directory
//   - Defaults: quality/audio strings for users without settings
type Config struct {
	Bot           Bot           `toml:"bot"`
	Admin         Admin         `toml:"admin"`
	TMDB          TMDB          `toml:"tmdb"`
	OMDB          OMDB          `toml:"omdb"`
	Jikan         Jikan         `toml:"jikan"`
	AniList       AniList       `toml:"anilist"`
	Session       Session       `toml:"session"`
	Store         Store         `toml:"store"`
	Card          Card          `toml:"card"`
	Limits        Limits        `toml:"limits"`
	Notifications Notifications `toml:"notifications"`
	Web           Web           `toml:"web"`
	Logging       Logging       `toml:"logging"`
	Defaults      Defaults      `toml:"defaults"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/marquee/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("marquee.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Store.Path)}
	if strings.TrimSpace(c.Logging.Dir) != "" {
		dirs = append(dirs, c.Logging.Dir)
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// IsAdmin reports whether the given Telegram user ID is an operator.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
