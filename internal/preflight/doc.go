// Package preflight validates the environment before the daemon starts:
// directory permissions, the optional catalog seed file, and Telegram Bot
// API reachability. Checks return results instead of errors so callers can
// render them all at once.
package preflight
