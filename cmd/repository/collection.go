package repository

import (
	"context"
	"errors"
)

var (
	ErrNoDocument   = errors.New("document not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Filter selects documents. Equal fields must match exactly, Match fields
// are case-insensitive regular expressions. Keys are document field names.
type Filter struct {
	Equal map[string]any
	Match map[string]string
}

// All matches every document in a collection.
func All() Filter { return Filter{} }

// Eq builds a filter with a single exact-match field.
func Eq(field string, value any) Filter {
	return Filter{Equal: map[string]any{field: value}}
}

// Like builds a filter with a single case-insensitive pattern field.
func Like(field, pattern string) Filter {
	return Filter{Match: map[string]string{field: pattern}}
}

// Fields is a partial document applied with set semantics.
type Fields map[string]any

// Collection is a schema-less document collection addressed by id or filter.
// None of the operations are transactional; concurrent updates to one
// document are last-write-wins.
type Collection[T any] interface {
	Find(ctx context.Context, f Filter) ([]T, error)
	FindOne(ctx context.Context, f Filter) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, id string, doc *T) error
	// UpdateByID reports whether a document with id existed.
	UpdateByID(ctx context.Context, id string, set Fields) (bool, error)
	// UpdateWhere updates document id only if it also matches where, in one
	// store operation, and reports whether it matched.
	UpdateWhere(ctx context.Context, id string, where Filter, set Fields) (bool, error)
	// Append atomically pushes value onto the array field of document id and
	// returns the updated document.
	Append(ctx context.Context, id, field string, value any) (*T, error)
	// DeleteByID reports whether a document was removed.
	DeleteByID(ctx context.Context, id string) (bool, error)
}

// Collection names shared by every backend.
const (
	Admins   = "admins"
	Products = "products"
	Users    = "users"
	Orders   = "orders"
)

// uniqueFields lists the fields each backend enforces uniqueness on.
var uniqueFields = map[string][]string{
	Admins: {"email", "phone"},
	Users:  {"email"},
}
