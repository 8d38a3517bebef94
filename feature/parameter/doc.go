// Package parameter reconciles CockroachDB cluster settings and
// session variables. Desired values are compared against SHOW output
// by the setting's type (duration, byte size, bool, int, float) so
// spelling differences like "90m" vs "1h30m0s" do not trigger writes.
// Named workload profiles bundle common setting combinations.
package parameter
