package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession attaches the authenticated session. The middleware
// stack installs it once per request; handlers read it back through
// SessionFromContext to learn the acting user and business.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext returns the request session, or nil for anonymous
// requests.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
