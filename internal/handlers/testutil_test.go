package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/artfit-app/backend/internal/db"
	"github.com/artfit-app/backend/internal/services/googleauth"
	"github.com/artfit-app/backend/internal/services/token"
	"github.com/artfit-app/backend/internal/storage"
)

const testSecret = "test-secret"

type testEnv struct {
	t      *testing.T
	app    *fiber.App
	db     *gorm.DB
	set    *Set
	tokens *token.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	tokens := token.NewService(gdb, testSecret, 15, 7*24*time.Hour)
	store := storage.NewLocal(t.TempDir(), "")

	set := &Set{
		Auth: &AuthHandler{DB: gdb, Tokens: tokens},
		Google: &GoogleAuthHandler{
			DB:       gdb,
			Tokens:   tokens,
			Verifier: googleauth.New("test-client"),
		},
		Me:        NewMeHandler(gdb, store),
		Works:     NewWorkHandler(gdb, store),
		Skills:    NewSkillHandler(gdb, nil),
		Projects:  NewProjectHandler(gdb),
		Proposals: NewProposalHandler(gdb),
		JWTSecret: testSecret,
	}

	app := fiber.New()
	set.Register(app)

	return &testEnv{t: t, app: app, db: gdb, set: set, tokens: tokens}
}

// doJSON performs a request with an optional JSON body and bearer token and
// decodes the response envelope.
func (e *testEnv) doJSON(method, path string, body any, bearer string) (int, map[string]any) {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	if len(raw) > 0 {
		require.NoError(e.t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

// register creates an account and returns its access token and account view.
func (e *testEnv) register(handle, email, password, role string) (string, map[string]any) {
	e.t.Helper()

	status, body := e.doJSON(http.MethodPost, "/api/register", fiber.Map{
		"handle":   handle,
		"email":    email,
		"password": password,
		"role":     role,
	}, "")
	require.Equal(e.t, http.StatusCreated, status, "register response: %v", body)

	data := body["data"].(map[string]any)
	return data["access_token"].(string), data["account"].(map[string]any)
}

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected data object in %v", body)
	return d
}

func dataList(t *testing.T, body map[string]any) []any {
	t.Helper()
	d, ok := body["data"].([]any)
	require.True(t, ok, "expected data array in %v", body)
	return d
}
