// Package stores implements the local deployment journal: a SQLite
// database recording every run and its per-step results. The schema is
// managed through embedded golang-migrate migrations.
package stores
