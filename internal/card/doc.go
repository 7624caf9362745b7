// Package card builds the 1280x720 post image.
//
// Compose lays a blurred backdrop, a left-aligned portrait poster with
// rounded corners and a drop shadow, a legibility gradient, an accent line,
// and an optional watermark pill. Recompose scales a user-supplied image to
// the canvas and applies only the watermark. Both always produce a quality-92
// JPEG; missing or broken source images degrade to a labeled placeholder
// panel, never to an error.
package card
