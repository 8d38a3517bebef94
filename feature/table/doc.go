// Package table reconciles table existence, including column
// definitions, composite primary keys, and hash/list/range
// partitioning on create.
package table
