// Package logger builds the shared zap logger and fiber helpers.
package logger
