// Package server holds the HTTP facade configuration.
package server
