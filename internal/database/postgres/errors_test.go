package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestQueryError_MalformedValueIsInvalidArgument(t *testing.T) {
	pgErr := &pgconn.PgError{Code: sqlStateInvalidTextRepresentation, Message: `invalid input syntax for type uuid: "not-a-uuid"`}

	err := QueryError("get variation", fmt.Errorf("scan: %w", pgErr))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
	assert.True(t, apperr.IsBusiness(err))
	assert.Contains(t, err.Error(), "get variation")

	var got *pgconn.PgError
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, codes.InvalidArgument, status.Code(apperr.ToGRPC(err)))
}

func TestQueryError_OtherFailuresStayInternal(t *testing.T) {
	for _, cause := range []error{
		&pgconn.PgError{Code: "23505"},
		&pgconn.PgError{Code: sqlStateSerializationFailure},
		errors.New("connection reset"),
	} {
		err := QueryError("list transfers", cause)
		assert.Equal(t, apperr.KindUnknown, apperr.KindOf(err))
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "list transfers: "+cause.Error(), err.Error())
		assert.Equal(t, codes.Internal, status.Code(apperr.ToGRPC(err)))
	}
	assert.Nil(t, QueryError("noop", nil))
}

func TestQueryError_KeepsSerializationRetryable(t *testing.T) {
	err := QueryError("lock stock", &pgconn.PgError{Code: sqlStateSerializationFailure})
	assert.True(t, isRetryable(err))
}
