package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDestination(t *testing.T) {
	dest, err := ParseDestination("s3://crdb-backups/prod?AWS_ACCESS_KEY_ID=AKIA&AWS_SECRET_ACCESS_KEY=topsecret")
	assert.NoError(t, err)
	assert.Equal(t, "s3", dest.Scheme)
	assert.Equal(t, "crdb-backups", dest.Bucket)
	assert.Equal(t, "prod", dest.Path)
}

func TestParseDestinationRejectsUnknownScheme(t *testing.T) {
	_, err := ParseDestination("ftp://somewhere/backups")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported destination scheme")
}

func TestStringRedactsCredentials(t *testing.T) {
	dest, err := ParseDestination("s3://crdb-backups/prod?AWS_ACCESS_KEY_ID=AKIA&AWS_SECRET_ACCESS_KEY=topsecret")
	assert.NoError(t, err)

	redacted := dest.String()
	assert.NotContains(t, redacted, "topsecret")
	assert.NotContains(t, redacted, "AKIA&")
	assert.Contains(t, redacted, "REDACTED")
	// The raw URI keeps credentials for statement building.
	assert.Contains(t, dest.URI(), "topsecret")
}

func TestWithSubPath(t *testing.T) {
	dest, err := ParseDestination("s3://crdb-backups/prod?AWS_SECRET_ACCESS_KEY=topsecret")
	assert.NoError(t, err)

	sub := dest.WithSubPath("backup-20250101T000000-abcd1234")
	assert.Equal(t, "prod/backup-20250101T000000-abcd1234", sub.Path)
	assert.Contains(t, sub.URI(), "topsecret")
	// The original destination is untouched.
	assert.Equal(t, "prod", dest.Path)
}

func TestNodelocalDestination(t *testing.T) {
	dest, err := ParseDestination("nodelocal://1/backups/daily")
	assert.NoError(t, err)
	assert.Equal(t, "nodelocal", dest.Scheme)
	assert.Equal(t, "1", dest.Bucket)
	assert.Equal(t, "backups/daily", dest.Path)
}
