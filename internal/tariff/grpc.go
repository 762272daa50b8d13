package tariff

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor holds unary calls before invoking the handler.
func (l *Layer) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if err := l.Hold(ctx, peerIP(ctx)); err != nil {
			return nil, status.FromContextError(err).Err()
		}
		return handler(ctx, req)
	}
}

// StreamServerInterceptor holds streaming calls before invoking the handler.
func (l *Layer) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := ss.Context()
		if err := l.Hold(ctx, peerIP(ctx)); err != nil {
			return status.FromContextError(err).Err()
		}
		return handler(srv, ss)
	}
}

func peerIP(ctx context.Context) net.IP {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return nil
	}
	if tcp, ok := p.Addr.(*net.TCPAddr); ok {
		return tcp.IP
	}
	return hostIP(p.Addr.String())
}
