// Package services defines the shared error taxonomy for external
// capabilities (catalog search, detail fetch, image download, distribution).
//
// Components wrap failures with sentinel markers so the conversation
// controller can classify them with errors.Is and convert them into
// user-visible messages without inspecting provider internals.
package services
