// Package web serves the keep-alive health endpoint used by hosting
// platforms that probe HTTP.
package web
