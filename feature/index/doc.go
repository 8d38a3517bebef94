// Package index reconciles secondary indexes, including unique,
// partial and covering (STORING) indexes.
package index
