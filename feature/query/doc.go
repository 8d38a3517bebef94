// Package query runs ad-hoc SQL statements with positional arguments.
package query
