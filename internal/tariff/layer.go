package tariff

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// Layer applies a Policy to requests in a pipeline. Adapters for gin,
// net/http and gRPC are built from the same Layer.
type Layer struct {
	policy *Policy
}

// NewLayer returns a Layer that holds requests according to policy.
func NewLayer(policy *Policy) *Layer {
	return &Layer{policy: policy}
}

// Policy returns the layer's policy.
func (l *Layer) Policy() *Policy {
	return l.policy
}

// Hold waits for the delay the policy assigns to ip. It returns ctx.Err() if
// ctx is done before the delay elapses, in which case the request should not
// be forwarded. A nil ip is not delayed.
func (l *Layer) Hold(ctx context.Context, ip net.IP) error {
	country, delay := l.policy.Explain(ip)
	if delay <= 0 {
		return nil
	}

	slog.Debug("delaying request", "ip", ip.String(), "country", string(country), "delay_ms", delay.Milliseconds())
	return wait(ctx, delay)
}

// wait parks the calling goroutine on a timer; it does not occupy a thread.
func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// hostIP extracts the IP from a "host:port" or bare host address.
func hostIP(addr string) net.IP {
	if addr == "" {
		return nil
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	return net.ParseIP(host)
}
