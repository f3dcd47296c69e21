package ctxkeys

import (
	"context"

	"github.com/templui/darkroom/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	CallerKey  contextKey = "caller"
	SessionKey contextKey = "session"
)

// Caller returns the request's caller. Requests without a session resolve
// to the zero Caller, which is anonymous.
func Caller(ctx context.Context) model.Caller {
	caller, _ := ctx.Value(CallerKey).(model.Caller)
	return caller
}

func WithCaller(ctx context.Context, caller model.Caller) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

func Session(ctx context.Context) *model.Session {
	session, _ := ctx.Value(SessionKey).(*model.Session)
	return session
}

func WithSession(ctx context.Context, session *model.Session) context.Context {
	ctx = context.WithValue(ctx, SessionKey, session)
	return WithCaller(ctx, session.Caller())
}
