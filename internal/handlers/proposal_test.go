package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitProposal(t *testing.T, env *testEnv, tok, projectID, letter string) map[string]any {
	t.Helper()
	status, body := env.doJSON(http.MethodPost, "/api/proposals", fiber.Map{
		"project_id":   projectID,
		"cover_letter": letter,
	}, tok)
	require.Equal(t, http.StatusCreated, status, "response: %v", body)
	return data(t, body)
}

func TestProposalCreate(t *testing.T) {
	env := newTestEnv(t)
	aliceTok, _ := env.register("alice", "a@x.com", "Secr3t!", "DES")
	bobTok, bob := env.register("bob", "b@x.com", "Secr3t!", "DEV")

	project := createProject(t, env, aliceTok, fiber.Map{})

	p := submitProposal(t, env, bobTok, project["id"].(string), "pick me")
	assert.Equal(t, "PENDING", p["status"])
	assert.Equal(t, bob["id"], p["submitter_id"])
}

func TestProposalCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	tok, _ := env.register("bob", "b@x.com", "Secr3t!", "DEV")

	status, body := env.doJSON(http.MethodPost, "/api/proposals", fiber.Map{
		"project_id":   "not-a-uuid",
		"cover_letter": "",
	}, tok)
	require.Equal(t, http.StatusBadRequest, status)

	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "project_id")
	assert.Contains(t, errs, "cover_letter")
}

func TestProposalCreateMissingProject(t *testing.T) {
	env := newTestEnv(t)
	tok, _ := env.register("bob", "b@x.com", "Secr3t!", "DEV")

	status, _ := env.doJSON(http.MethodPost, "/api/proposals", fiber.Map{
		"project_id":   uuid.NewString(),
		"cover_letter": "pick me",
	}, tok)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProposalDuplicateIsConflict(t *testing.T) {
	env := newTestEnv(t)
	aliceTok, _ := env.register("alice", "a@x.com", "Secr3t!", "DES")
	bobTok, _ := env.register("bob", "b@x.com", "Secr3t!", "DEV")

	project := createProject(t, env, aliceTok, fiber.Map{})
	id := project["id"].(string)

	submitProposal(t, env, bobTok, id, "pick me")

	status, _ := env.doJSON(http.MethodPost, "/api/proposals", fiber.Map{
		"project_id":   id,
		"cover_letter": "pick me again",
	}, bobTok)
	assert.Equal(t, http.StatusConflict, status)

	// a different submitter is still fine
	carolTok, _ := env.register("carol", "c@x.com", "Secr3t!", "BOTH")
	submitProposal(t, env, carolTok, id, "or me")
}

func TestProposalListVisibilityScope(t *testing.T) {
	env := newTestEnv(t)
	aliceTok, _ := env.register("alice", "a@x.com", "Secr3t!", "DES")
	bobTok, _ := env.register("bob", "b@x.com", "Secr3t!", "DEV")
	carolTok, _ := env.register("carol", "c@x.com", "Secr3t!", "BOTH")

	project := createProject(t, env, aliceTok, fiber.Map{})
	submitProposal(t, env, bobTok, project["id"].(string), "pick me")

	// anonymous callers see an empty list, not an error
	status, body := env.doJSON(http.MethodGet, "/api/proposals", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, dataList(t, body))

	// the submitter and the project owner both see it
	status, body = env.doJSON(http.MethodGet, "/api/proposals", nil, bobTok)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, dataList(t, body), 1)

	status, body = env.doJSON(http.MethodGet, "/api/proposals", nil, aliceTok)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, dataList(t, body), 1)

	// an unrelated user sees nothing
	status, body = env.doJSON(http.MethodGet, "/api/proposals", nil, carolTok)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, dataList(t, body))
}

func TestProposalGetHidesOutOfScope(t *testing.T) {
	env := newTestEnv(t)
	aliceTok, _ := env.register("alice", "a@x.com", "Secr3t!", "DES")
	bobTok, _ := env.register("bob", "b@x.com", "Secr3t!", "DEV")
	carolTok, _ := env.register("carol", "c@x.com", "Secr3t!", "BOTH")

	project := createProject(t, env, aliceTok, fiber.Map{})
	p := submitProposal(t, env, bobTok, project["id"].(string), "pick me")
	id := p["id"].(string)

	status, _ := env.doJSON(http.MethodGet, "/api/proposals/"+id, nil, bobTok)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.doJSON(http.MethodGet, "/api/proposals/"+id, nil, aliceTok)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.doJSON(http.MethodGet, "/api/proposals/"+id, nil, carolTok)
	assert.Equal(t, http.StatusNotFound, status, "out-of-scope proposals look absent")
}

func TestProposalUpdateFieldPermissions(t *testing.T) {
	env := newTestEnv(t)
	aliceTok, _ := env.register("alice", "a@x.com", "Secr3t!", "DES")
	bobTok, _ := env.register("bob", "b@x.com", "Secr3t!", "DEV")
	carolTok, _ := env.register("carol", "c@x.com", "Secr3t!", "BOTH")

	project := createProject(t, env, aliceTok, fiber.Map{})
	p := submitProposal(t, env, bobTok, project["id"].(string), "pick me")
	id := p["id"].(string)

	// stranger: flat forbidden
	status, _ := env.doJSON(http.MethodPut, "/api/proposals/"+id, fiber.Map{
		"cover_letter": "hijack",
	}, carolTok)
	assert.Equal(t, http.StatusForbidden, status)

	// submitter edits the cover letter but may not decide the status
	status, body := env.doJSON(http.MethodPut, "/api/proposals/"+id, fiber.Map{
		"cover_letter": "pick me, revised",
	}, bobTok)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pick me, revised", data(t, body)["cover_letter"])

	status, _ = env.doJSON(http.MethodPut, "/api/proposals/"+id, fiber.Map{
		"status": "ACCEPTED",
	}, bobTok)
	assert.Equal(t, http.StatusForbidden, status)

	// owner decides the status but may not rewrite the letter
	status, _ = env.doJSON(http.MethodPut, "/api/proposals/"+id, fiber.Map{
		"cover_letter": "rewritten by owner",
	}, aliceTok)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = env.doJSON(http.MethodPut, "/api/proposals/"+id, fiber.Map{
		"status": "ACCEPTED",
	}, aliceTok)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ACCEPTED", data(t, body)["status"])
}

func TestProposalUpdateRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	aliceTok, _ := env.register("alice", "a@x.com", "Secr3t!", "DES")
	bobTok, _ := env.register("bob", "b@x.com", "Secr3t!", "DEV")

	project := createProject(t, env, aliceTok, fiber.Map{})
	p := submitProposal(t, env, bobTok, project["id"].(string), "pick me")

	status, body := env.doJSON(http.MethodPut, "/api/proposals/"+p["id"].(string), fiber.Map{
		"status": "MAYBE",
	}, aliceTok)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["errors"].(map[string]any), "status")
}

func TestProposalDelete(t *testing.T) {
	env := newTestEnv(t)
	aliceTok, _ := env.register("alice", "a@x.com", "Secr3t!", "DES")
	bobTok, _ := env.register("bob", "b@x.com", "Secr3t!", "DEV")
	carolTok, _ := env.register("carol", "c@x.com", "Secr3t!", "BOTH")

	project := createProject(t, env, aliceTok, fiber.Map{})
	p := submitProposal(t, env, bobTok, project["id"].(string), "pick me")
	id := p["id"].(string)

	status, _ := env.doJSON(http.MethodDelete, "/api/proposals/"+id, nil, carolTok)
	assert.Equal(t, http.StatusForbidden, status)

	// the project owner may also withdraw a proposal
	status, _ = env.doJSON(http.MethodDelete, "/api/proposals/"+id, nil, aliceTok)
	require.Equal(t, http.StatusOK, status)

	status, _ = env.doJSON(http.MethodGet, "/api/proposals/"+id, nil, bobTok)
	assert.Equal(t, http.StatusNotFound, status)
}
