// Package api contains the HTTP handlers, request/response models and
// error mapping for the task tracking API. Handlers decode and validate
// requests, delegate to the domain and store layers, and translate
// internal errors into sanitized JSON responses.
package api
