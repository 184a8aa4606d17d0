// Package logging builds the slog loggers used across reelog.
//
// The console handler renders a compact human-readable line per record with
// the component, user, and conversation state pulled into the header; the JSON
// handler emits machine-readable records with normalized keys. Context helpers
// stamp user/chat/state/correlation fields so every log line emitted while
// handling an update carries the same identifiers.
package logging
