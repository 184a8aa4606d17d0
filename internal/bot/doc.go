// Package bot is the update dispatcher: it long-polls the transport, routes
// commands and dialogue input per user, and renders every reply the diary
// sends. All domain work is delegated to the catalog, flow, insights, and
// store packages.
package bot
