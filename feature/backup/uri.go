package backup

import (
	"fmt"
	"net/url"
	"strings"
)

// Destination is a parsed backup URI. Credentials ride in the query
// string, so the raw URI must never reach logs or results unredacted.
type Destination struct {
	Scheme string
	Bucket string
	Path   string
	Query  url.Values
	raw    string
}

// Schemes the cluster accepts for BACKUP/RESTORE targets.
var knownSchemes = map[string]struct{}{
	"s3": {}, "gs": {}, "azure": {}, "nodelocal": {}, "userfile": {},
}

// Credential-bearing query parameters, lower-cased.
var secretParams = map[string]struct{}{
	"aws_secret_access_key": {},
	"aws_access_key_id":     {},
	"azure_account_key":     {},
	"credentials":           {},
	"bearer_token":          {},
}

// ParseDestination parses and validates a backup destination URI.
func ParseDestination(raw string) (*Destination, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid destination URI: %w", err)
	}
	if _, ok := knownSchemes[u.Scheme]; !ok {
		return nil, fmt.Errorf("unsupported destination scheme %q", u.Scheme)
	}
	return &Destination{
		Scheme: u.Scheme,
		Bucket: u.Host,
		Path:   strings.TrimPrefix(u.Path, "/"),
		Query:  u.Query(),
		raw:    raw,
	}, nil
}

// URI returns the full destination including credentials, for use in
// statements only.
func (d *Destination) URI() string {
	return d.raw
}

// WithSubPath returns a copy of the destination with the sub-path
// appended, credentials preserved.
func (d *Destination) WithSubPath(sub string) *Destination {
	u, _ := url.Parse(d.raw)
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + sub
	out := *d
	out.Path = strings.TrimPrefix(u.Path, "/")
	out.raw = u.String()
	return &out
}

// String renders the destination with credential parameters redacted.
// This is what results and logs show.
func (d *Destination) String() string {
	u, err := url.Parse(d.raw)
	if err != nil {
		return d.Scheme + "://" + d.Bucket
	}
	q := u.Query()
	for param := range q {
		if _, secret := secretParams[strings.ToLower(param)]; secret {
			q.Set(param, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
