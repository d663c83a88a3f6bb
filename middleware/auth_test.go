package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func protected(t *testing.T, admin bool) (http.Handler, *Identity) {
	t.Helper()
	seen := &Identity{}
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		*seen = identity
		w.WriteHeader(http.StatusNoContent)
	})
	if admin {
		h = RequireAdmin(h)
	}
	return Authenticate(secret, slog.New(slog.NewTextHandler(io.Discard, nil)))(h), seen
}

func request(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthenticate(t *testing.T) {
	player, err := IssueToken(secret, Identity{UserID: "u1", Role: RolePlayer, ParticipantIDs: []string{"p1", "team-7"}}, time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(secret, Identity{UserID: "u1", Role: RolePlayer}, -time.Hour)
	require.NoError(t, err)
	foreign, err := IssueToken([]byte("other"), Identity{UserID: "u1", Role: RolePlayer}, time.Hour)
	require.NoError(t, err)
	numeric, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": float64(42), "role": "admin"}).SignedString(secret)
	require.NoError(t, err)
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{name: "valid player", token: player, status: http.StatusNoContent},
		{name: "numeric user id", token: numeric, status: http.StatusNoContent},
		{name: "missing token", token: "", status: http.StatusUnauthorized},
		{name: "expired", token: expired, status: http.StatusUnauthorized},
		{name: "wrong key", token: foreign, status: http.StatusUnauthorized},
		{name: "no user id", token: noUser, status: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _ := protected(t, false)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, request(tc.token))
			assert.Equal(t, tc.status, rec.Code)
		})
	}

	h, seen := protected(t, false)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, request(player))
	assert.Equal(t, Identity{UserID: "u1", Role: RolePlayer, ParticipantIDs: []string{"p1", "team-7"}}, *seen)
}

func TestRequireAdmin(t *testing.T) {
	player, err := IssueToken(secret, Identity{UserID: "u1", Role: RolePlayer}, time.Hour)
	require.NoError(t, err)
	organizer, err := IssueToken(secret, Identity{UserID: "u2", Role: RoleOrganizer}, time.Hour)
	require.NoError(t, err)

	h, _ := protected(t, true)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, request(player))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, request(organizer))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
