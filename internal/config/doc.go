// Package config provides configuration management for Marquee.
//
// Configuration is loaded from a TOML file, searched in order at
// ~/.config/marquee/config.toml and then ./marquee.toml, with sane defaults
// applied for anything the file omits. Credentials may also come from the
// BOT_TOKEN, TMDB_API_KEY, and OMDB_API_KEY environment variables.
//
// Validation happens in two layers: Validate checks structural invariants and
// runs on every load so the operator CLI works against a partial config, while
// ValidateDaemon additionally requires the credentials the bot cannot start
// without.
package config
