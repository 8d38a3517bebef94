// Package statistics reconciles optimizer table statistics.
package statistics
