package core

import "context"

type requestKey struct{}

// RequestInfo identifies the client behind a change.
type RequestInfo struct {
	IPAddress string
	UserAgent string
}

// WithRequestInfo attaches client details to ctx. Activity entries
// recorded with the returned context carry them.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestKey{}, info)
}

// RequestInfoFromContext returns the client details stored in ctx,
// or the zero value.
func RequestInfoFromContext(ctx context.Context) RequestInfo {
	info, _ := ctx.Value(requestKey{}).(RequestInfo)
	return info
}
