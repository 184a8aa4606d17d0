// Package daemon owns the long-running reelog process: it holds the
// single-instance lock, runs the bot's polling loop, and tears everything
// down in order on shutdown. Message handling itself lives in the bot
// package; the daemon focuses on lifecycle.
package daemon
