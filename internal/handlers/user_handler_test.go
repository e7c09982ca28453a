package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"castboard_backend/internal/models"
	"castboard_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	res, body := ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var data struct {
		Status string `json:"status"`
	}
	env := testutil.DecodeEnvelope(t, body, &data)
	assert.True(t, env.Success)
	assert.Equal(t, "ok", data.Status)
}

func TestAccountMe(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token, user := ts.CreateAndLoginUser(t, "me@example.com", models.UserRoleClient)

	res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/account/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/account/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodPatch, "/api/v1/account/me", token, map[string]interface{}{
		"full_name": "Renamed", "city": "Astana",
	})
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	var profile struct {
		UserID        uint    `json:"user_id"`
		FullName      string  `json:"full_name"`
		City          string  `json:"city"`
		ProfilePicURL *string `json:"profile_pic_url"`
	}
	testutil.DecodeEnvelope(t, body, &profile)
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, "Renamed", profile.FullName)
	assert.Equal(t, "Astana", profile.City)

	res, body = ts.SendMultipart(t, "/api/v1/account/me/profile-pic", token, nil, "profile_pic", "me.png", testutil.PNGBytes(t, 20, 20))
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	testutil.DecodeEnvelope(t, body, &profile)
	require.NotNil(t, profile.ProfilePicURL)
	assert.True(t, strings.HasPrefix(*profile.ProfilePicURL, "/media/"), *profile.ProfilePicURL)
}
