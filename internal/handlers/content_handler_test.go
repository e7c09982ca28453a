package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"castboard_backend/internal/models"
	"castboard_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)
	adminToken, _ := ts.CreateAndLoginSuperuser(t, "admin@example.com")
	userToken, _ := ts.CreateAndLoginUser(t, "reader@example.com", models.UserRoleClient)

	for _, path := range []string{"/api/v1/privacy-policy", "/api/v1/about-us", "/api/v1/terms-conditions"} {
		t.Run(path, func(t *testing.T) {
			res, body := ts.SendRequest(t, http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusNotFound, res.StatusCode, body)
			assert.Contains(t, body, "No content found.")

			res, body = ts.SendRequest(t, http.MethodPut, path, userToken, map[string]interface{}{"description": "x"})
			assert.Equal(t, http.StatusForbidden, res.StatusCode, body)

			res, body = ts.SendRequest(t, http.MethodPut, path, adminToken, map[string]interface{}{"description": "v1"})
			require.Equal(t, http.StatusCreated, res.StatusCode, body)
			var created struct {
				ID uint `json:"id"`
			}
			env := testutil.DecodeEnvelope(t, body, &created)
			assert.Equal(t, "Content created successfully.", env.Message)

			res, body = ts.SendRequest(t, http.MethodPut, path, adminToken, map[string]interface{}{"description": "v2"})
			require.Equal(t, http.StatusOK, res.StatusCode, body)
			assert.Contains(t, body, "Content updated successfully.")

			res, body = ts.SendRequest(t, http.MethodPatch, path, adminToken, map[string]interface{}{"description": "v3"})
			require.Equal(t, http.StatusOK, res.StatusCode, body)
			assert.Contains(t, body, "Content partially updated successfully.")

			res, body = ts.SendRequest(t, http.MethodGet, path, "", nil)
			require.Equal(t, http.StatusOK, res.StatusCode, body)
			var doc struct {
				ID          uint   `json:"id"`
				Description string `json:"description"`
			}
			testutil.DecodeEnvelope(t, body, &doc)
			assert.Equal(t, created.ID, doc.ID, "документ остается единственным")
			assert.Equal(t, "v3", doc.Description)
		})
	}
}

func TestContactQueryEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/submit/query", "", map[string]interface{}{
		"name": "Visitor", "email": "bad",
	})
	require.Equal(t, http.StatusBadRequest, res.StatusCode, body)
	var details map[string]string
	testutil.DecodeEnvelope(t, body, &details)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "message")

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/submit/query", "", map[string]interface{}{
		"name": "Visitor", "email": "Visitor@Example.com", "message": "Hello there",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var query struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
	}
	env := testutil.DecodeEnvelope(t, body, &query)
	assert.Equal(t, "User query submitted successfully!", env.Message)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/submit/query", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	assert.Contains(t, body, "All queries retrieved successfully.")
	assert.Contains(t, body, "Hello there")

	res, body = ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/submit/query/%d", query.ID), "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/submit/query/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode, body)
}

func TestThoughtEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token, _ := ts.CreateAndLoginUser(t, "thinker@example.com", models.UserRoleAgent)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/thoughts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/thoughts", token, map[string]interface{}{"thoughts": ""})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/thoughts", token, map[string]interface{}{"thoughts": "Great platform"})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	assert.Contains(t, body, "Created successfully!")

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/thoughts", token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var list struct {
		Items []struct {
			Thoughts string `json:"thoughts"`
		} `json:"items"`
	}
	env := testutil.DecodeEnvelope(t, body, &list)
	assert.Equal(t, "Retrieved successfully!", env.Message)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Great platform", list.Items[0].Thoughts)
}
