package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artfit-app/backend/internal/models"
	"github.com/artfit-app/backend/internal/services/googleauth"
)

// fakeTokeninfo serves the Google tokeninfo endpoint with fixed claims.
func fakeTokeninfo(t *testing.T, env *testEnv, status int, claims googleauth.IDTokenClaims) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/tokeninfo", r.URL.Path)
		require.NotEmpty(t, r.URL.Query().Get("id_token"))
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(claims)
	}))
	t.Cleanup(srv.Close)
	env.set.Google.Verifier.BaseURL = srv.URL
}

func TestGoogleAuthCreatesAccount(t *testing.T) {
	env := newTestEnv(t)
	fakeTokeninfo(t, env, http.StatusOK, googleauth.IDTokenClaims{
		Aud:   "test-client",
		Sub:   "1234567890",
		Email: "newuser@example.com",
		Name:  "New User",
	})

	status, body := env.doJSON(http.MethodPost, "/api/auth/google", fiber.Map{"token": "id-token"}, "")
	require.Equal(t, http.StatusOK, status, "response: %v", body)

	d := data(t, body)
	assert.Equal(t, true, d["is_new_account"])
	assert.NotEmpty(t, d["access_token"])

	account := d["account"].(map[string]any)
	assert.Equal(t, "newuser_123456", account["handle"])
	profile := account["profile"].(map[string]any)
	assert.Equal(t, "New User", profile["display_name"])

	// second sign-in links the same account and leaves the profile alone
	status, body = env.doJSON(http.MethodPost, "/api/auth/google", fiber.Map{"token": "id-token"}, "")
	require.Equal(t, http.StatusOK, status)
	d = data(t, body)
	assert.Equal(t, false, d["is_new_account"])

	var userCount int64
	env.db.Model(&models.User{}).Count(&userCount)
	assert.EqualValues(t, 1, userCount)
}

func TestGoogleAuthMissingEmailCreatesNothing(t *testing.T) {
	env := newTestEnv(t)
	fakeTokeninfo(t, env, http.StatusOK, googleauth.IDTokenClaims{
		Aud: "test-client",
		Sub: "1234567890",
	})

	status, _ := env.doJSON(http.MethodPost, "/api/auth/google", fiber.Map{"token": "id-token"}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	var userCount int64
	env.db.Model(&models.User{}).Count(&userCount)
	assert.Zero(t, userCount)
}

func TestGoogleAuthRejectsWrongAudience(t *testing.T) {
	env := newTestEnv(t)
	fakeTokeninfo(t, env, http.StatusOK, googleauth.IDTokenClaims{
		Aud:   "someone-else",
		Sub:   "1234567890",
		Email: "x@example.com",
	})

	status, _ := env.doJSON(http.MethodPost, "/api/auth/google", fiber.Map{"token": "id-token"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGoogleAuthRejectsInvalidToken(t *testing.T) {
	env := newTestEnv(t)
	fakeTokeninfo(t, env, http.StatusBadRequest, googleauth.IDTokenClaims{})

	status, _ := env.doJSON(http.MethodPost, "/api/auth/google", fiber.Map{"token": "garbage"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestGoogleAuthUnconfiguredIsServerError(t *testing.T) {
	env := newTestEnv(t)
	env.set.Google.Verifier = googleauth.New("")

	status, _ := env.doJSON(http.MethodPost, "/api/auth/google", fiber.Map{"token": "id-token"}, "")
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestGoogleAuthMissingTokenBody(t *testing.T) {
	env := newTestEnv(t)

	status, _ := env.doJSON(http.MethodPost, "/api/auth/google", fiber.Map{}, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGoogleAuthRetriesHandleCollision(t *testing.T) {
	env := newTestEnv(t)

	// occupy the handle the generator would pick first
	env.register("taken_123456", "other@x.com", "Secr3t!", "DEV")

	fakeTokeninfo(t, env, http.StatusOK, googleauth.IDTokenClaims{
		Aud:   "test-client",
		Sub:   "1234567890",
		Email: "taken@example.com",
	})

	status, body := env.doJSON(http.MethodPost, "/api/auth/google", fiber.Map{"token": "id-token"}, "")
	require.Equal(t, http.StatusOK, status, "response: %v", body)

	account := data(t, body)["account"].(map[string]any)
	handle := account["handle"].(string)
	assert.NotEqual(t, "taken_123456", handle)
	assert.Contains(t, handle, "taken_")
}
