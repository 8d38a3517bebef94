// Package user reconciles roles: existence, login, password, and the
// db:priv1,priv2 grant shorthand.
package user
