// Package db reconciles database existence and ownership.
package db
