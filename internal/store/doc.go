// Package store persists users, templates, and post counters in SQLite.
//
// Unlike the session package, which holds short-lived conversation state,
// this store is durable: bans, premium flags, per-user settings, stored
// templates, and daily quota counters survive restarts.
package store
