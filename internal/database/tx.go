package database

import "context"

// TxManager runs fn inside one storage transaction. Repositories called with
// the ctx passed to fn take part in that transaction; a nested WithTx joins
// the outer one. Any error returned by fn, or a cancelled ctx, rolls back.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
