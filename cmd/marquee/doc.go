// Package main hosts the Marquee operator CLI.
//
// The Cobra-based command tree covers configuration scaffolding and
// validation, usage stats, user moderation, and template inspection. It works
// directly against the daemon's SQLite database, so moderation takes effect on
// the user's next message without restarting marqueed.
package main
