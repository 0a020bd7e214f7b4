package postgres

import (
	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

const sqlStateInvalidTextRepresentation = "22P02"

// QueryError wraps a failed statement with op. A value Postgres cannot parse,
// such as an identifier that is not a UUID, is the caller's fault and becomes
// InvalidArgument; everything else stays a storage failure.
func QueryError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == sqlStateInvalidTextRepresentation {
		return &apperr.Error{Kind: apperr.KindInvalidArgument, Message: op, Err: err}
	}
	return errors.WithMessage(err, op)
}
