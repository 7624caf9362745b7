// Package flow drives the post-building conversation.
//
// The transport layer converts raw updates into Events; a middleware chain
// tracks users and enforces bans, and the Controller advances each user's
// session through the search, select, thumbnail, preview, and distribute
// phases. All user-visible failures are recoverable: the worst outcome of
// any event is an error message and an unchanged or cleared session.
package flow
