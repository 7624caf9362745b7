// Package session stores per-user conversation state.
//
// Each Telegram user has at most one State, kept under the key "fsm:<userID>"
// with a sliding TTL. Redis is the primary backend when configured; a
// process-local memory backend serves as both the standalone mode and the
// degradation target when Redis is unreachable. A failed backend never
// surfaces to the user as an error, the conversation continues on the
// fallback and the incident is logged.
package session
