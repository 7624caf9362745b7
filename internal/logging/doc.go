// Package logging builds slog loggers for Marquee.
//
// Two formats are supported: "console" renders a human-oriented single-line
// format with the component attribute folded into a message prefix, and
// "json" emits machine-readable records. Output goes to stdout and, when
// logging.dir is configured, an appended marquee.log file.
package logging
