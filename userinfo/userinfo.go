// userinfo package carries the resolved caller identity through the request context.
package userinfo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/armanbilge/lucuma-sso/user"
)

// ctxKey is a type for storing values in the request context
type ctxKey string

// CtxUser is the key used to store the resolved user in the context.
const CtxUser ctxKey = "user"

// NewCtx returns a context carrying u.
func NewCtx(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, CtxUser, u)
}

// FromRequest returns the resolved user from the request context.
func FromRequest(r *http.Request) user.User {
	return FromCtx(r.Context())
}

// FromCtx returns the resolved user from the context.
func FromCtx(ctx context.Context) user.User {
	u, ok := ctx.Value(CtxUser).(user.User)
	if !ok {
		panic(fmt.Sprintf("failed to find %s in request context", CtxUser))
	}

	return u
}
