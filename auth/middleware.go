package auth

import (
	"context"
	"net/http"

	"github.com/itemo/codec"
)

type ctxKey struct{}

// Middleware rejects requests without a valid bearer token and stores the
// member id in the request context.
func Middleware(tok *T) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := tok.Extract(r.Header.Get("Authorization"))
			if err != nil {
				codec.WriteJSONError(w, http.StatusUnauthorized, "로그인이 필요합니다.")
				return
			}
			memberID, err := tok.Verify(raw)
			if err != nil {
				codec.WriteJSONError(w, http.StatusUnauthorized, "로그인이 필요합니다.")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithMemberID(r.Context(), memberID)))
		})
	}
}

func WithMemberID(ctx context.Context, memberID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, memberID)
}

func MemberID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
