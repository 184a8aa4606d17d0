// Command reelog is the offline companion to the reelogd daemon. It works
// directly against the diary database: configuration management, catalog
// seeding and lookup, and the same reports the bot serves over chat.
package main
