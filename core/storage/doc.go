// Package storage wraps an S3-compatible object store client, used by
// the backup module to verify destinations out of band of the cluster.
package storage
