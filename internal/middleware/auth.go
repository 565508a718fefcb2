package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/courtside/courtside-api/internal/pkg/jwt"
	"github.com/courtside/courtside-api/internal/pkg/response"
)

const identityKey contextKey = "identity"

// Auth returns middleware that validates JWT and requires an identity
func Auth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := identityFromRequest(jwtService, r)
			if err != nil {
				if err == jwt.ErrExpiredToken {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid or missing authorization")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
		})
	}
}

// OptionalAuth attaches an identity when a valid token is present and
// continues anonymously otherwise. Booking submission accepts both.
func OptionalAuth(jwtService *jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := identityFromRequest(jwtService, r)
			if err != nil {
				// A present but broken token is rejected, not ignored.
				response.Unauthorized(w, "Invalid authorization")
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
		})
	}
}

func identityFromRequest(jwtService *jwt.Service, r *http.Request) (*jwt.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, jwt.ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, jwt.ErrInvalidToken
	}

	return jwtService.ValidateAccessToken(parts[1])
}

func withIdentity(ctx context.Context, claims *jwt.Claims) context.Context {
	return context.WithValue(ctx, identityKey, &jwt.Identity{
		UserID: claims.UserID,
		Role:   claims.Role,
		Name:   claims.Name,
		Email:  claims.Email,
		Phone:  claims.Phone,
	})
}

// GetIdentity extracts the authenticated identity from context, nil if anonymous
func GetIdentity(ctx context.Context) *jwt.Identity {
	if id, ok := ctx.Value(identityKey).(*jwt.Identity); ok {
		return id
	}
	return nil
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) uuid.UUID {
	if id := GetIdentity(ctx); id != nil {
		return id.UserID
	}
	return uuid.Nil
}

// GetRole extracts user role from context
func GetRole(ctx context.Context) string {
	if id := GetIdentity(ctx); id != nil {
		return id.Role
	}
	return ""
}

// RequireRole returns middleware that checks user role
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetRole(r.Context())

			for _, role := range roles {
				if userRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Insufficient permissions")
		})
	}
}

// RequireStaff returns middleware that requires staff or admin role
func RequireStaff() func(http.Handler) http.Handler {
	return RequireRole("staff", "admin")
}

// RequireAdmin returns middleware that requires admin role
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole("admin")
}
