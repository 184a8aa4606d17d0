// Package telegram is a thin Telegram Bot API client: getMe for startup
// checks, getUpdates long polling, and sendMessage with optional reply
// keyboards. No other Bot API surface is wrapped.
package telegram
