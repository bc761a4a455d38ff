package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notekeeper-server/pkg/jwt"
)

func TestAuthMiddleware(t *testing.T) {
	secret := "middleware-test-secret"

	validToken, err := jwt.GenerateToken("user-1", "alice", 1*time.Hour, secret)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	expiredToken, _ := jwt.GenerateToken("user-1", "alice", -1*time.Hour, secret)
	foreignToken, _ := jwt.GenerateToken("user-1", "alice", 1*time.Hour, "another-secret")

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUserID string
	}{
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbled token",
			header:     "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			header:     "Bearer " + expiredToken,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "wrong signing secret",
			header:     "Bearer " + foreignToken,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid token",
			header:     "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantUserID: "user-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID = GetUserID(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/notes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(secret)(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantUserID != "" && gotUserID != tt.wantUserID {
				t.Errorf("user id in context = %q, want %q", gotUserID, tt.wantUserID)
			}
		})
	}
}
