package middleware

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/schoolfees/internal/tenant"
)

// TenantInterceptor copies the Authorization and X-School-ID headers of every call into
// the context, from where the GraphQL client forwards them upstream. Credentials are
// not verified here; the backend authorizes each request.
func TenantInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			return next(tenant.FromHeader(ctx, req.Header()), req)
		}
	}
}
