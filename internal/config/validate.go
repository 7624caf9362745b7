package config

import (
	"fmt"
	"net"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.Bot.Token = strings.TrimSpace(c.Bot.Token)
	c.Bot.Username = strings.TrimSpace(c.Bot.Username)

	if c.TMDB.APIKey == "" {
		if env := strings.TrimSpace(os.Getenv("TMDB_API_KEY")); env != "" {
			c.TMDB.APIKey = env
		}
	}
	if c.OMDB.APIKey == "" {
		if env := strings.TrimSpace(os.Getenv("OMDB_API_KEY")); env != "" {
			c.OMDB.APIKey = env
		}
	}
	if c.Bot.Token == "" {
		if env := strings.TrimSpace(os.Getenv("BOT_TOKEN")); env != "" {
			c.Bot.Token = env
		}
	}

	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	c.TMDB.ImageBaseURL = strings.TrimSpace(c.TMDB.ImageBaseURL)
	c.TMDB.BackdropBaseURL = strings.TrimSpace(c.TMDB.BackdropBaseURL)
	c.OMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.OMDB.BaseURL), "/")
	c.Jikan.BaseURL = strings.TrimRight(strings.TrimSpace(c.Jikan.BaseURL), "/")
	c.AniList.URL = strings.TrimSpace(c.AniList.URL)
	c.Session.RedisURL = strings.TrimSpace(c.Session.RedisURL)

	storePath, err := expandPath(c.Store.Path)
	if err != nil {
		return err
	}
	c.Store.Path = storePath

	if strings.TrimSpace(c.Logging.Dir) != "" {
		logDir, err := expandPath(c.Logging.Dir)
		if err != nil {
			return err
		}
		c.Logging.Dir = logDir
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

// Validate checks configuration invariants that do not depend on runtime
// credentials. Credential presence (bot token, TMDB key) is checked by the
// daemon at startup so the operator CLI can run against a partial config.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Session.TTLSeconds <= 0 {
		return fmt.Errorf("session.ttl_seconds must be positive, got %d", c.Session.TTLSeconds)
	}
	if c.Limits.MaxSearchResults <= 0 {
		return fmt.Errorf("limits.max_search_results must be positive, got %d", c.Limits.MaxSearchResults)
	}
	if c.Limits.FreePostsPerDay <= 0 || c.Limits.PremiumPostsPerDay <= 0 {
		return fmt.Errorf("limits: daily post quotas must be positive")
	}
	if c.Card.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("card.fetch_timeout_seconds must be positive, got %d", c.Card.FetchTimeoutSeconds)
	}
	if c.Web.Enabled {
		if _, _, err := net.SplitHostPort(c.Web.Bind); err != nil {
			return fmt.Errorf("web.bind: %w", err)
		}
	}
	return nil
}

// ValidateDaemon checks the credentials the long-running bot cannot function
// without.
func (c *Config) ValidateDaemon() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot.token is required (set it in the config file or BOT_TOKEN)")
	}
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required (set it in the config file or TMDB_API_KEY)")
	}
	return nil
}
