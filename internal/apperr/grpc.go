package apperr

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToGRPC converts an engine error to a gRPC status error. Anything that is not
// a business rejection surfaces as a generic Internal failure.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch KindOf(err) {
	case KindInvalidArgument:
		return status.Error(codes.InvalidArgument, msg)
	case KindNotFound:
		return status.Error(codes.NotFound, msg)
	case KindInsufficientStock, KindInvalidTransition:
		return status.Error(codes.FailedPrecondition, msg)
	case KindUnauthenticated:
		return status.Error(codes.Unauthenticated, msg)
	default:
		return status.Error(codes.Internal, "operation failed")
	}
}
