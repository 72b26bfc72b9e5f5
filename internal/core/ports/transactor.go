package ports

import "context"

// Transactor runs a unit of work. When Atomic reports true, an error from fn
// rolls back every write made through the context passed to fn; otherwise the
// caller is responsible for compensating.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Atomic() bool
}
