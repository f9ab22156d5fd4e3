// Package domain defines the core business entities of the application:
// users and the tasks they own. Entities are created through NewX
// constructors that validate their invariants, and carry a Validate
// method so stores can re-check data before persisting it.
package domain
