package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// MemberIDKey is the context key for the acting member's ID
	MemberIDKey ContextKey = "member_id"
)

// MemberContext resolves the acting member from the X-Member-ID header.
// There is no real authentication in this system; the header stands in for
// the session the excluded auth layer would provide. Requests without a
// valid member id still pass through, handlers decide whether they need one.
func MemberContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-Member-ID")
		if raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				ctx := context.WithValue(r.Context(), MemberIDKey, id.String())
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// GetMemberID extracts the acting member's ID from the request context
func GetMemberID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(MemberIDKey).(string)
	return id, ok
}
