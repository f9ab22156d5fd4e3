// Package store defines the persistence interfaces of the application
// and the sentinel errors shared by their implementations. Concrete
// implementations live in internal/platform; services and handlers
// depend only on the interfaces defined here so tests can substitute
// in-memory fakes.
package store
