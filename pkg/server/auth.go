package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maphoenix/solarroi/pkg/log"
)

// adminMiddleware restricts a handler to operators. The caller presents a
// Google ID token as a bearer token; the token's email must be in the
// admin-emails list. When neither an OIDC audience nor admin emails are
// configured the check is bypassed for local development.
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = log.WithAttrs(ctx, slog.String("reqPath", r.URL.Path))

		if s.bypassAuth {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}
		if s.oidcVerifier == nil {
			log.Ctx(ctx).WarnContext(ctx, "admin endpoint hit without oidc configured")
			writeJSONError(w, "forbidden", http.StatusForbidden)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSONError(w, "missing auth header", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Ctx(ctx).WarnContext(ctx, "invalid auth header")
			writeJSONError(w, "invalid auth header", http.StatusBadRequest)
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		idToken, err := s.oidcVerifier(ctx, token)
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "token validation failed", slog.Any("error", err))
			writeJSONError(w, "invalid auth token", http.StatusUnauthorized)
			return
		}

		var claims struct {
			Email         string `json:"email"`
			EmailVerified bool   `json:"email_verified"`
		}
		if err := idToken.Claims(&claims); err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to parse token claims", slog.Any("error", err))
			writeJSONError(w, "invalid auth token", http.StatusUnauthorized)
			return
		}
		if !claims.EmailVerified || !s.isAdmin(claims.Email) {
			log.Ctx(ctx).WarnContext(ctx, "non-admin attempted admin endpoint", slog.String("email", claims.Email))
			writeJSONError(w, "forbidden", http.StatusForbidden)
			return
		}

		ctx = log.WithAttrs(ctx, slog.String("adminEmail", claims.Email))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isAdmin returns true if the email is in the adminEmails list.
func (s *Server) isAdmin(email string) bool {
	for _, adminEmail := range s.adminEmails {
		if email == adminEmail {
			return true
		}
	}
	return false
}

// decodeJSONBody decodes a JSON request body into v, limiting the body to
// 1MB to prevent abuse.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1048576)
	return json.NewDecoder(r.Body).Decode(v)
}
