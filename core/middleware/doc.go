// Package middleware provides the fiber middleware for the HTTP
// facade: request id assignment and API-key auth.
package middleware
