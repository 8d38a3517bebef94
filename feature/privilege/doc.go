// Package privilege reconciles GRANT/REVOKE state on databases,
// schemas, tables, views, sequences, types and functions. A snapshot
// of current grants is read (SHOW GRANTS, with an information_schema
// fallback), diffed against the request under per-object-type match
// policies, and the resulting statements are applied unless check mode
// is on.
package privilege
