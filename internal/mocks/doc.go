// Package mocks provides hand-written test doubles for the store and
// service interfaces. Each mock exposes function fields for custom
// behavior and a small in-memory default implementation so most tests
// need no setup beyond the constructor.
package mocks
