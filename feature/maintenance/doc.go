// Package maintenance covers operational chores: garbage collection
// TTL tuning via zone configurations, node liveness status, and
// cancelling runaway queries or sessions.
package maintenance
