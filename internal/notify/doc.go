// Package notify pushes operator notifications through ntfy.
//
// Notifications cover daemon lifecycle, new user signups, failed
// distributions, and broadcast completion. When no topic is configured the
// service is a noop so callers never need to guard their calls.
package notify
