package grpcapi

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"

	"github.com/example/comment-board/internal/platform/auth"
)

// StandInInterceptor attributes every call to the stand-in user, the same
// way the HTTP StandIn middleware does. Identity metadata sent by the caller
// is not consulted.
func StandInInterceptor(res auth.Resolver, log *zap.Logger) grpc.UnaryServerInterceptor {
	if log == nil {
		log = zap.NewNop()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id, err := res.Resolve(ctx)
		if err != nil {
			log.Error("resolve stand-in identity", zap.String("method", info.FullMethod), zap.Error(err))
			return nil, withInfo(codes.Internal, "INTERNAL", err.Error())
		}
		return handler(auth.WithIdentity(ctx, id), req)
	}
}
