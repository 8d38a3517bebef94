// Package utils holds small conversion helpers for values scanned from
// SQL result sets.
package utils
