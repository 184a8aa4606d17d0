// Command reelogd runs the diary bot: it validates the environment, opens
// the store, seeds the catalog when empty, and long-polls the Telegram Bot
// API until interrupted.
package main
