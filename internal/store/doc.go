// Package store persists the title catalog and the append-only viewing log in
// SQLite.
//
// Open applies WAL and busy-timeout pragmas and runs embedded migrations
// tracked in a schema_migrations table. The write surface is deliberately
// small: catalog entries are insert-only, viewing events are append-only, and
// each persist operation is a single atomic statement. Read-side components
// (the matcher and the insights queries) build their own SELECTs against the
// exposed handle.
package store
