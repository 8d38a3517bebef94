package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// Category classifies a database error so callers can branch on the
// failure kind instead of matching message text.
type Category int

const (
	// CategoryGeneric is any failure not covered by a more specific category.
	CategoryGeneric Category = iota
	// CategoryNotFound covers missing databases, tables, roles, schemas and indexes.
	CategoryNotFound
	// CategoryUnknownSetting covers references to cluster settings the
	// cluster does not know. Kept separate from NotFound: a missing
	// setting name is a caller bug, not missing state.
	CategoryUnknownSetting
	// CategoryAlreadyExists covers duplicate-object failures.
	CategoryAlreadyExists
	// CategoryPermissionDenied covers insufficient-privilege failures.
	CategoryPermissionDenied
	// CategorySyntax covers malformed SQL.
	CategorySyntax
	// CategoryUnsupported covers requests the cluster (or this toolkit)
	// cannot honor, such as column-level privileges.
	CategoryUnsupported
	// CategoryRead marks a snapshot read failure. A read failure must
	// never be conflated with an empty result.
	CategoryRead
)

// String returns a short label for the category.
func (c Category) String() string {
	switch c {
	case CategoryNotFound:
		return "not_found"
	case CategoryUnknownSetting:
		return "unknown_setting"
	case CategoryAlreadyExists:
		return "already_exists"
	case CategoryPermissionDenied:
		return "permission_denied"
	case CategorySyntax:
		return "syntax"
	case CategoryUnsupported:
		return "unsupported"
	case CategoryRead:
		return "read"
	default:
		return "generic"
	}
}

// Error is a categorized database error.
type Error struct {
	Category Category
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a categorized error with a plain message.
func NewError(cat Category, msg string) *Error {
	return &Error{Category: cat, Message: msg}
}

// CategoryOf returns the category of err, or CategoryGeneric when err
// carries no *Error in its chain.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return CategoryGeneric
}

// IsNotFound reports whether err is categorized as a missing object.
func IsNotFound(err error) bool {
	return CategoryOf(err) == CategoryNotFound
}

// IsUnknownSetting reports whether err names a setting the cluster does not know.
func IsUnknownSetting(err error) bool {
	return CategoryOf(err) == CategoryUnknownSetting
}

// IsAlreadyExists reports whether err is a duplicate-object failure.
func IsAlreadyExists(err error) bool {
	return CategoryOf(err) == CategoryAlreadyExists
}

// SQLSTATE classes CockroachDB raises for the failures we branch on.
var sqlstateCategories = map[string]Category{
	"42P01": CategoryNotFound,         // undefined_table
	"3D000": CategoryNotFound,         // invalid_catalog_name
	"42704": CategoryNotFound,         // undefined_object
	"42883": CategoryNotFound,         // undefined_function
	"42P04": CategoryAlreadyExists,    // duplicate_database
	"42P07": CategoryAlreadyExists,    // duplicate_table
	"42710": CategoryAlreadyExists,    // duplicate_object
	"42P06": CategoryAlreadyExists,    // duplicate_schema
	"42501": CategoryPermissionDenied, // insufficient_privilege
	"42601": CategorySyntax,           // syntax_error
	"0A000": CategoryUnsupported,      // feature_not_supported
}

// Categorize wraps err in a categorized *Error. The SQLSTATE code wins
// when lib/pq surfaces one; otherwise the message is probed for the
// phrases CockroachDB uses. A nil err stays nil, and an already
// categorized err passes through untouched.
func Categorize(err error) error {
	if err == nil {
		return nil
	}
	var already *Error
	if errors.As(err, &already) {
		return err
	}

	msg := strings.ToLower(err.Error())

	// Unknown-setting errors arrive as undefined_object; probe the
	// message first so they keep their own category.
	if strings.Contains(msg, "unknown cluster setting") || strings.Contains(msg, "unknown setting") {
		return &Error{Category: CategoryUnknownSetting, Err: err}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if cat, ok := sqlstateCategories[string(pqErr.Code)]; ok {
			return &Error{Category: cat, Err: err}
		}
	}

	switch {
	case strings.Contains(msg, "does not exist"):
		return &Error{Category: CategoryNotFound, Err: err}
	case strings.Contains(msg, "already exists"):
		return &Error{Category: CategoryAlreadyExists, Err: err}
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "insufficient privilege"):
		return &Error{Category: CategoryPermissionDenied, Err: err}
	case strings.Contains(msg, "syntax error"):
		return &Error{Category: CategorySyntax, Err: err}
	}

	return &Error{Category: CategoryGeneric, Err: err}
}
