package services_test

import (
	"testing"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/models"
	"castboard_backend/internal/services/dto"
	"castboard_backend/internal/testutil"
	"castboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTalent(t *testing.T, f *fixture, actor auth.Actor, name string) *dto.TalentResponse {
	t.Helper()
	talent, err := f.svc.TalentService.CreateTalent(f.ctx, f.db, actor, &dto.CreateTalentRequest{Name: name})
	require.NoError(t, err)
	return talent
}

func TestCreateTalent(t *testing.T) {
	f := newFixture(t)
	_, agent := f.user(t, "agent@example.com", models.UserRoleAgent)
	_, client := f.user(t, "client@example.com", models.UserRoleClient)

	t.Run("клиент не может добавлять талантов", func(t *testing.T) {
		_, err := f.svc.TalentService.CreateTalent(f.ctx, f.db, client, &dto.CreateTalentRequest{Name: "Eva"})
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	})

	t.Run("поля и значения по умолчанию", func(t *testing.T) {
		talent, err := f.svc.TalentService.CreateTalent(f.ctx, f.db, agent, &dto.CreateTalentRequest{
			Name:    "Eva",
			DOB:     "1999-04-12",
			Gender:  "female",
			Height:  floatPtr(178.5),
			Country: "France",
		})
		require.NoError(t, err)
		assert.Equal(t, agent.UserID, talent.AddedByAgent)
		assert.True(t, talent.IsAvailable)
		require.NotNil(t, talent.DOB)
		assert.Equal(t, "1999-04-12", *talent.DOB)
		assert.Empty(t, talent.Images)

		fetched, err := f.svc.TalentService.GetTalent(f.ctx, f.db, talent.TalentID)
		require.NoError(t, err)
		require.NotNil(t, fetched.DOB)
		assert.Equal(t, "1999-04-12", *fetched.DOB)
		assert.Equal(t, 178.5, *fetched.Height)
	})

	t.Run("неверный формат даты", func(t *testing.T) {
		_, err := f.svc.TalentService.CreateTalent(f.ctx, f.db, agent, &dto.CreateTalentRequest{Name: "Bad", DOB: "12/04/1999"})
		assert.Contains(t, fieldErrors(t, err), "dob")
	})
}

func TestUpdateTalent(t *testing.T) {
	f := newFixture(t)
	_, owner := f.user(t, "owner@example.com", models.UserRoleAgent)
	_, rival := f.user(t, "rival@example.com", models.UserRoleAgent)
	talent, err := f.svc.TalentService.CreateTalent(f.ctx, f.db, owner, &dto.CreateTalentRequest{Name: "Mia", DOB: "2000-01-01"})
	require.NoError(t, err)

	_, err = f.svc.TalentService.UpdateTalent(f.ctx, f.db, rival, talent.TalentID, &dto.UpdateTalentRequest{Name: strPtr("Stolen")})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	available := false
	updated, err := f.svc.TalentService.UpdateTalent(f.ctx, f.db, owner, talent.TalentID, &dto.UpdateTalentRequest{
		Name:        strPtr("Mia K."),
		DOB:         strPtr(""),
		IsAvailable: &available,
	})
	require.NoError(t, err)
	assert.Equal(t, "Mia K.", updated.Name)
	assert.Nil(t, updated.DOB, "пустая строка очищает дату")
	assert.False(t, updated.IsAvailable)

	_, err = f.svc.TalentService.UpdateTalent(f.ctx, f.db, owner, 9999, &dto.UpdateTalentRequest{})
	assert.ErrorIs(t, err, apperrors.ErrTalentNotFound)
}

func TestListTalents_Filters(t *testing.T) {
	f := newFixture(t)
	agentA, a := f.user(t, "a@example.com", models.UserRoleAgent)
	_, b := f.user(t, "b@example.com", models.UserRoleAgent)
	createTalent(t, f, a, "Anna")
	createTalent(t, f, a, "Hanna")
	createTalent(t, f, b, "Boris")

	list, err := f.svc.TalentService.ListTalents(f.ctx, f.db, &dto.TalentListQuery{AgentID: agentA.ID}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Meta.Total)

	list, err = f.svc.TalentService.ListTalents(f.ctx, f.db, &dto.TalentListQuery{Search: "ANNA"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Meta.Total, "поиск по подстроке без учета регистра")
}

func TestDeleteTalent_RemovesImagesAndFiles(t *testing.T) {
	// Arrange
	f := newFixture(t)
	_, agent := f.user(t, "agent@example.com", models.UserRoleAgent)
	talent := createTalent(t, f, agent, "Zoe")
	for i := 0; i < 2; i++ {
		_, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, agent, talent.TalentID,
			testutil.FileHeader(t, "image", "zoe.png", testutil.PNGBytes(t, 120, 80)), &dto.AddTalentImageRequest{})
		require.NoError(t, err)
	}
	require.NotEmpty(t, f.store.Keys())

	// Act
	err := f.svc.TalentService.DeleteTalent(f.ctx, f.db, agent, talent.TalentID)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, f.store.Keys(), "файлы удаляются вместе с талантом")

	var count int64
	require.NoError(t, f.db.Model(&models.TalentImage{}).Where("talent_id = ?", talent.TalentID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = f.svc.TalentService.GetTalent(f.ctx, f.db, talent.TalentID)
	assert.ErrorIs(t, err, apperrors.ErrTalentNotFound)
}
