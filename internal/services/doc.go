// Package services defines shared utilities consumed by the conversation flow
// and the Telegram transport.
//
// Key responsibilities:
//   - Context helpers that stamp user IDs, chat IDs, conversation states, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures:
//     validation errors re-prompt, not-found routes to manual entry, and
//     configuration errors abort startup.
//
// Use these helpers when wiring new bot behaviour so error handling and
// observability stay uniform across commands.
package services
