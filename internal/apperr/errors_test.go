package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestIs_MatchesSentinelOfSameKind(t *testing.T) {
	err := InsufficientStock("variation %s short by %d", "v1", 3)

	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "variation v1 short by 3", err.Error())
}

func TestIs_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("complete transfer: %w", InvalidTransition("transfer already completed"))

	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, KindInvalidTransition, KindOf(err))
}

func TestKindOf_PlainErrorIsUnknown(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("boom")))
	assert.False(t, IsBusiness(errors.New("boom")))
	assert.False(t, IsBusiness(ConsistencyViolation("stock drifted")))
	assert.True(t, IsBusiness(NotFound("audit not found")))
}

func TestToGRPC(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
		msg  string
	}{
		{"invalid argument", InvalidArgument("quantity must be positive"), codes.InvalidArgument, "quantity must be positive"},
		{"not found", NotFound("transfer not found"), codes.NotFound, "transfer not found"},
		{"insufficient", InsufficientStock("not enough"), codes.FailedPrecondition, "not enough"},
		{"transition", InvalidTransition("already resolved"), codes.FailedPrecondition, "already resolved"},
		{"unauthenticated", Unauthenticated("missing actor"), codes.Unauthenticated, "missing actor"},
		{"consistency", ConsistencyViolation("stock_after mismatch"), codes.Internal, "operation failed"},
		{"storage", errors.New("pq: connection reset"), codes.Internal, "operation failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, ok := status.FromError(ToGRPC(tc.err))
			assert.True(t, ok)
			assert.Equal(t, tc.code, st.Code())
			assert.Equal(t, tc.msg, st.Message())
		})
	}

	assert.NoError(t, ToGRPC(nil))
}
