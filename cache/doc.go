// Package cache holds the in-memory state shared between the game side and
// the web side of the persistence layer: sessions of players currently
// online and the cookies of logged in web users.
//
// Both caches are plain values owned by whoever constructs them. They are
// created during setup and cleared on close; tests build as many
// independent instances as they need.
package cache
