// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces. Stores accept a store.DBTX so they can run against
// either a connection pool or a transaction, and normalize driver errors
// into the store package's sentinel errors.
package postgres
