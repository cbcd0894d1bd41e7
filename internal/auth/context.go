package auth

import (
	"context"
	"errors"

	"hrms-gateway/internal/session"
)

type ctxKey int

const (
	ctxSessionID ctxKey = iota
	ctxSession
)

// WithSession injects the resolved session (and its id) into ctx.
func WithSession(ctx context.Context, sid string, sess session.Session) context.Context {
	ctx = context.WithValue(ctx, ctxSessionID, sid)
	ctx = context.WithValue(ctx, ctxSession, sess)
	return ctx
}

// SessionID returns the session id attached by the middleware.
func SessionID(ctx context.Context) (string, error) {
	v := ctx.Value(ctxSessionID)
	if s, ok := v.(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("session_id not in context")
}

// CurrentSession returns the session attached by the middleware.
// ok is false for unauthenticated requests.
func CurrentSession(ctx context.Context) (session.Session, bool) {
	v := ctx.Value(ctxSession)
	if s, ok := v.(session.Session); ok {
		return s, true
	}
	return session.Session{}, false
}
