// Package grpclog provides gRPC server interceptors that contextualize the
// RPC method for handler logging and emit a completion record with the
// status code and duration.
package grpclog

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/logward/logward-go/pkg/logward"
)

// UnaryServerInterceptor logs every unary RPC. Handler code sees the RPC
// method in its ambient logging context.
func UnaryServerInterceptor(log *logward.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		start := time.Now()
		ctx = logward.Contextualize(ctx,
			logward.String("grpc_method", info.FullMethod),
		)

		resp, err := handler(ctx, req)

		fields := []logward.Field{
			logward.String("code", status.Code(err).String()),
			logward.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if err != nil {
			_ = log.Error(ctx, "rpc completed", append(fields, logward.Err(err))...)
		} else {
			_ = log.Info(ctx, "rpc completed", fields...)
		}

		return resp, err
	}
}

// StreamServerInterceptor logs every streaming RPC on completion.
func StreamServerInterceptor(log *logward.Logger) grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()
		ctx := logward.Contextualize(ss.Context(),
			logward.String("grpc_method", info.FullMethod),
		)

		err := handler(srv, &contextStream{ServerStream: ss, ctx: ctx})

		fields := []logward.Field{
			logward.String("code", status.Code(err).String()),
			logward.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if err != nil {
			_ = log.Error(ctx, "rpc completed", append(fields, logward.Err(err))...)
		} else {
			_ = log.Info(ctx, "rpc completed", fields...)
		}

		return err
	}
}

// contextStream carries the contextualized context to the handler.
type contextStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *contextStream) Context() context.Context {
	return s.ctx
}
