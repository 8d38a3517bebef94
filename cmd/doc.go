// Package cmd wires the cobra commands: one subcommand per
// administration module plus the serve facade. Every mutating command
// honors --check.
package cmd
