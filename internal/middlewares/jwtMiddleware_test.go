package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sharemark/internal/utils"
)

func newVerifier(t *testing.T) *utils.TokenVerifier {
	t.Helper()
	v, err := utils.NewTokenVerifier("middleware-secret", time.Hour)
	require.NoError(t, err)
	return v
}

// echoRequester writes the requester id, or "anonymous".
func echoRequester() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := utils.RequesterFromContext(r.Context()); id != nil {
			_, _ = w.Write([]byte(id.Hex()))
			return
		}
		_, _ = w.Write([]byte("anonymous"))
	})
}

func TestAuthMiddleware(t *testing.T) {
	verifier := newVerifier(t)
	userID := primitive.NewObjectID()
	token, err := verifier.Issue(userID)
	require.NoError(t, err)

	other, err := utils.NewTokenVerifier("another-secret", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue(userID)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + token, http.StatusOK, userID.Hex()},
		{"lowercase scheme", "bearer " + token, http.StatusOK, userID.Hex()},
		{"missing header", "", http.StatusUnauthorized, "No token, authorization denied"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Token is not valid"},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized, "Token is not valid"},
		{"wrong secret", "Bearer " + forged, http.StatusUnauthorized, "Token is not valid"},
	}

	handler := AuthMiddleware(verifier)(echoRequester())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	verifier := newVerifier(t)
	userID := primitive.NewObjectID()
	token, err := verifier.Issue(userID)
	require.NoError(t, err)

	handler := OptionalAuthMiddleware(verifier)(echoRequester())

	for header, want := range map[string]string{
		"":                "anonymous",
		"Bearer " + token: userID.Hex(),
		"Bearer tampered": "anonymous",
		"Token " + token:  "anonymous",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, header)
		assert.Equal(t, want, rr.Body.String(), header)
	}
}
