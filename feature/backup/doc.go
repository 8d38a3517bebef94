// Package backup runs BACKUP, RESTORE and backup listing against
// object storage destinations. Destination URIs are parsed and
// credential parameters are redacted from every reported query. For s3
// destinations the bucket can be verified out of band before the
// backup statement runs.
package backup
