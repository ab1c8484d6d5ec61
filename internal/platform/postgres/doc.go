// Package postgres contains the PostgreSQL-backed implementations of the
// store interfaces, along with mapping of driver errors to store errors
// and the embedded schema migrations.
package postgres
