// Package tables defines the player analytics tables.
//
// Each table exports its name and column names as constants and a
// Definition function. Registry returns all of them in creation order: every
// table comes after the tables its foreign keys reference, so the order can
// be used as is for creation and reversed for deletion. The order is fixed
// here and never inferred at runtime.
//
// Table and column names are stable identifiers. Changing one requires a
// patch in migrate/patches.
package tables
