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

type imageBody struct {
	ImageID   uint   `json:"image_id"`
	URL       string `json:"image"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

func TestTalentEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)
	agentToken, agent := ts.CreateAndLoginUser(t, "agent@example.com", models.UserRoleAgent)
	clientToken, _ := ts.CreateAndLoginUser(t, "client@example.com", models.UserRoleClient)
	rivalToken, _ := ts.CreateAndLoginUser(t, "rival@example.com", models.UserRoleAgent)

	var talentID uint
	t.Run("POST /talents", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/talents", "", map[string]interface{}{"name": "Anna"})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/talents", clientToken, map[string]interface{}{"name": "Anna"})
		assert.Equal(t, http.StatusForbidden, res.StatusCode, "клиент не может добавлять талантов. Body: "+body)

		res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/talents", agentToken, map[string]interface{}{
			"name": "Anna", "dob": "31-12-1999",
		})
		require.Equal(t, http.StatusBadRequest, res.StatusCode, body)
		var details map[string]string
		testutil.DecodeEnvelope(t, body, &details)
		assert.Contains(t, details, "dob")

		// Значения gender - в нижнем регистре
		res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/talents", agentToken, map[string]interface{}{
			"name": "Anna", "gender": "Female",
		})
		require.Equal(t, http.StatusBadRequest, res.StatusCode, body)
		details = nil
		testutil.DecodeEnvelope(t, body, &details)
		assert.Contains(t, details, "gender")

		res, body = ts.SendRequest(t, http.MethodPost, "/api/v1/talents", agentToken, map[string]interface{}{
			"name": "Anna", "dob": "1999-12-31", "gender": "female", "height": 172.5,
		})
		require.Equal(t, http.StatusCreated, res.StatusCode, body)

		var talent struct {
			TalentID     uint    `json:"talent_id"`
			AddedByAgent uint    `json:"added_by_agent"`
			DOB          *string `json:"dob"`
			Gender       string  `json:"gender"`
		}
		env := testutil.DecodeEnvelope(t, body, &talent)
		assert.Equal(t, "Talent created successfully.", env.Message)
		assert.Equal(t, agent.ID, talent.AddedByAgent)
		require.NotNil(t, talent.DOB)
		assert.Equal(t, "1999-12-31", *talent.DOB)
		assert.Equal(t, "female", talent.Gender)
		talentID = talent.TalentID
	})

	require.NotZero(t, talentID, "талант не создан")
	imagesPath := fmt.Sprintf("/api/v1/talents/%d/images", talentID)
	var first, second imageBody

	t.Run("POST /talents/:id/images", func(t *testing.T) {
		res, body := ts.SendMultipart(t, imagesPath, agentToken, nil, "image", "notes.txt", []byte("plain text"))
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)
		assert.Contains(t, body, "INVALID_IMAGE")

		res, body = ts.SendMultipart(t, imagesPath, rivalToken, nil, "image", "a.png", testutil.PNGBytes(t, 40, 30))
		assert.Equal(t, http.StatusForbidden, res.StatusCode, "чужой агент. Body: "+body)

		res, body = ts.SendMultipart(t, imagesPath, agentToken, map[string]string{"sort_order": "0"}, "image", "a.png", testutil.PNGBytes(t, 40, 30))
		require.Equal(t, http.StatusCreated, res.StatusCode, body)
		env := testutil.DecodeEnvelope(t, body, &first)
		assert.Equal(t, "Image uploaded successfully.", env.Message)
		assert.True(t, first.IsPrimary, "первое изображение становится основным")

		res, body = ts.SendMultipart(t, imagesPath, agentToken, map[string]string{"sort_order": "1"}, "image", "b.jpg", testutil.JPEGBytes(t, 30, 40))
		require.Equal(t, http.StatusCreated, res.StatusCode, body)
		testutil.DecodeEnvelope(t, body, &second)
		assert.False(t, second.IsPrimary)

		assert.Len(t, ts.Storage.Keys(), 4, "оригиналы и миниатюры")
	})

	t.Run("POST /talents/:id/images/:imageId/primary", func(t *testing.T) {
		path := fmt.Sprintf("%s/%d/primary", imagesPath, second.ImageID)
		res, body := ts.SendRequest(t, http.MethodPost, path, agentToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Contains(t, body, "Primary image updated successfully.")

		res, body = ts.SendRequest(t, http.MethodGet, imagesPath, agentToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		var images []imageBody
		testutil.DecodeEnvelope(t, body, &images)
		require.Len(t, images, 2)

		primary := 0
		for _, img := range images {
			if img.IsPrimary {
				primary++
				assert.Equal(t, second.ImageID, img.ImageID)
			}
		}
		assert.Equal(t, 1, primary, "ровно одно основное изображение")
	})

	t.Run("PATCH /talents/:id/images/:imageId", func(t *testing.T) {
		path := fmt.Sprintf("%s/%d", imagesPath, first.ImageID)
		res, body := ts.SendRequest(t, http.MethodPatch, path, agentToken, map[string]interface{}{"sort_order": -2})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodPatch, path, agentToken, map[string]interface{}{"sort_order": 5})
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		var img imageBody
		testutil.DecodeEnvelope(t, body, &img)
		assert.Equal(t, 5, img.SortOrder)
	})

	t.Run("DELETE primary image promotes the next one", func(t *testing.T) {
		path := fmt.Sprintf("%s/%d", imagesPath, second.ImageID)
		res, body := ts.SendRequest(t, http.MethodDelete, path, agentToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodGet, imagesPath, agentToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		var images []imageBody
		testutil.DecodeEnvelope(t, body, &images)
		require.Len(t, images, 1)
		assert.True(t, images[0].IsPrimary)
		assert.Equal(t, first.ImageID, images[0].ImageID)
	})

	t.Run("GET /talents", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, fmt.Sprintf("/api/v1/talents?agent=%d&search=ann", agent.ID), clientToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		var list struct {
			Items []struct {
				Name   string      `json:"name"`
				Images []imageBody `json:"images"`
			} `json:"items"`
			Meta struct {
				Total int64 `json:"total"`
			} `json:"meta"`
		}
		testutil.DecodeEnvelope(t, body, &list)
		assert.Equal(t, int64(1), list.Meta.Total)
		require.Len(t, list.Items, 1)
		assert.Equal(t, "Anna", list.Items[0].Name)
		assert.Len(t, list.Items[0].Images, 1)
	})

	t.Run("GET /talents/:id - bad id", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodGet, "/api/v1/talents/abc", agentToken, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodGet, "/api/v1/talents/9999", agentToken, nil)
		assert.Equal(t, http.StatusNotFound, res.StatusCode, body)
		assert.Contains(t, body, "Talent not found.")
	})

	t.Run("DELETE /talents/:id", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/talents/%d", talentID)
		res, body := ts.SendRequest(t, http.MethodDelete, path, rivalToken, nil)
		assert.Equal(t, http.StatusForbidden, res.StatusCode, body)

		res, body = ts.SendRequest(t, http.MethodDelete, path, agentToken, nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
		assert.Empty(t, ts.Storage.Keys(), "файлы удалены вместе с талантом")
	})
}
