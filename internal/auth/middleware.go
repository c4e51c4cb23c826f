package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const principalContextKey contextKey = "opsalert_principal"

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(*Principal)
	return p, ok
}

func JWTMiddleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			claims, err := svc.ParseToken(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			ctx := WithPrincipal(r.Context(), &Principal{Subject: claims.Subject})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
