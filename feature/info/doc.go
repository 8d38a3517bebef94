// Package info gathers read-only cluster facts: version, databases,
// tables (optionally with approximate sizes), roles, settings and
// indexes.
package info
