package httpx

import (
	"context"
	"net/http"
	"strconv"

	"agrimarket/internal/orders"
)

// Authentication happens at the edge; the gateway attaches the verified
// identity as headers. This middleware only lifts them into the context.
const (
	headerUserID = "X-User-Id"
	headerRole   = "X-User-Role"
)

type actorKey struct{}

func ActorFromContext(ctx context.Context) (orders.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(orders.Actor)
	return a, ok
}

// WithActor rejects requests without a valid identity.
func WithActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
		role := orders.Role(r.Header.Get(headerRole))
		if err != nil || id <= 0 || !orders.ValidRole(role) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or invalid identity"})
			return
		}
		actor := orders.Actor{UserID: id, Role: role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey{}, actor)))
	})
}

// RequireRole gates a route subtree to the given roles. The state machine
// re-checks roles on writes; this is the first line, not the only one.
func RequireRole(roles ...orders.Role) func(http.Handler) http.Handler {
	allowed := map[orders.Role]bool{}
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok || !allowed[actor.Role] {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "insufficient permissions"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
