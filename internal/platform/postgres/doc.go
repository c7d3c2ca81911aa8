// Package postgres provides PostgreSQL implementations of the persistence
// interfaces defined in internal/store: user accounts as relational rows and
// game sessions as JSONB payloads. It handles query execution and the mapping
// of database errors onto the store sentinel errors.
package postgres
