// Package reconcile carries the Decision type every module service
// produces (changed flag plus the statements that realize the change)
// and the Apply executor honoring check mode.
package reconcile
