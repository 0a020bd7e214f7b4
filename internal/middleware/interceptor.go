package middleware

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// ContextInterceptor attaches the calling actor from incoming metadata to the
// request context and logs every call with its outcome.
func ContextInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()

		if actor, ok := auth.ActorFromContext(ctx); ok {
			ctx = auth.WithActor(ctx, actor)
		}

		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.String("code", code.String()),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
			log.Warn("grpc request failed", fields...)
		} else {
			log.Info("grpc request", fields...)
		}
		return resp, err
	}
}
