// Package daemon ties the Telegram bot, the health endpoint, and operator
// notifications into a single lifecycle with flock-based locking to prevent
// multiple concurrent instances.
package daemon
