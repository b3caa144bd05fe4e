package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"warehouse-backend/internal/auth"
)

type contextKey string

const SubjectKey contextKey = "subject"
const EmailKey contextKey = "email"
const RoleKey contextKey = "role"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, status, msg := m.claims(r)
		if claims == nil {
			http.Error(w, msg, status)
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// RequireRole authenticates the request and ensures the caller has one of
// the allowed roles.
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, status, msg := m.claims(r)
			if claims == nil {
				http.Error(w, msg, status)
				return
			}

			hasRole := false
			for _, role := range allowedRoles {
				if claims.Role == role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func (m *AuthMiddleware) claims(r *http.Request) (*auth.Claims, int, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		// Browsers cannot set headers on a websocket upgrade.
		if tok := r.URL.Query().Get("access_token"); tok != "" && websocket.IsWebSocketUpgrade(r) {
			authHeader = "Bearer " + tok
		} else {
			return nil, http.StatusUnauthorized, "Authorization header required"
		}
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, http.StatusUnauthorized, "Invalid authorization format"
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid or expired token"
	}
	return claims, 0, ""
}

func withClaims(ctx context.Context, c *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, SubjectKey, c.Subject)
	ctx = context.WithValue(ctx, EmailKey, c.Email)
	return context.WithValue(ctx, RoleKey, c.Role)
}

// GetSubjectFromContext extracts the token subject from request context
func GetSubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(SubjectKey).(string)
	return sub, ok
}

// GetRoleFromContext extracts role from request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}
