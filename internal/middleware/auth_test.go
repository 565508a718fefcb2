package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/courtside/courtside-api/internal/pkg/jwt"
)

func testToken(t *testing.T, svc *jwt.Service, role string) string {
	t.Helper()
	token, err := svc.GenerateAccessToken(jwt.Identity{
		UserID: uuid.New(),
		Role:   role,
		Name:   "Alex Chen",
		Email:  "alex@example.com",
	})
	if err != nil {
		t.Fatalf("token gen failed: %v", err)
	}
	return token
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthAllowsValidToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	token := testToken(t, jwtSvc, "customer")

	protected := Auth(jwtSvc)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAuthRejectsMissingToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	protected := Auth(jwtSvc)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", -time.Minute)
	token := testToken(t, jwtSvc, "customer")

	protected := Auth(jwt.NewService("secret", time.Minute))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)

	var sawIdentity bool
	handler := OptionalAuth(jwtSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawIdentity = GetIdentity(r.Context()) != nil
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if sawIdentity {
		t.Fatal("anonymous request must carry no identity")
	}
}

func TestOptionalAuthAttachesIdentity(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	token := testToken(t, jwtSvc, "customer")

	var identity *jwt.Identity
	handler := OptionalAuth(jwtSvc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if identity == nil {
		t.Fatal("expected identity in context")
	}
	if identity.Email != "alex@example.com" {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestOptionalAuthRejectsBrokenToken(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)
	handler := OptionalAuth(jwtSvc)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("a present but invalid token must be rejected, got %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	jwtSvc := jwt.NewService("secret", time.Minute)

	tests := []struct {
		name     string
		role     string
		guard    func(http.Handler) http.Handler
		wantCode int
	}{
		{"staff passes staff guard", "staff", RequireStaff(), http.StatusOK},
		{"admin passes staff guard", "admin", RequireStaff(), http.StatusOK},
		{"customer fails staff guard", "customer", RequireStaff(), http.StatusForbidden},
		{"admin passes admin guard", "admin", RequireAdmin(), http.StatusOK},
		{"staff fails admin guard", "staff", RequireAdmin(), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := testToken(t, jwtSvc, tt.role)
			handler := Auth(jwtSvc)(tt.guard(okHandler()))

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}
