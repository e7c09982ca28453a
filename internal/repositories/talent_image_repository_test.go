package repositories_test

import (
	"testing"

	"castboard_backend/internal/models"
	"castboard_backend/internal/repositories"
	"castboard_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTalent(t *testing.T, db *gorm.DB) *models.Talent {
	t.Helper()
	agent := testutil.CreateUser(t, db, &models.User{Email: "agent@example.com", Role: models.UserRoleAgent}, testutil.TestPassword)
	talent := &models.Talent{AgentID: agent.ID, Name: "Alice", IsAvailable: true}
	require.NoError(t, repositories.NewTalentRepository().Create(db, talent))
	return talent
}

func createImage(t *testing.T, db *gorm.DB, talentID uint, primary bool, sortOrder int) *models.TalentImage {
	t.Helper()
	img := &models.TalentImage{
		TalentID:  talentID,
		Image:     "talent_images/x.png",
		IsPrimary: primary,
		SortOrder: sortOrder,
	}
	require.NoError(t, repositories.NewTalentImageRepository().Create(db, img))
	return img
}

func TestTalentImageRepository_SecondPrimaryRejectedByIndex(t *testing.T) {
	// Arrange
	db := testutil.NewTestDB(t)
	repo := repositories.NewTalentImageRepository()
	talent := createTalent(t, db)
	createImage(t, db, talent.ID, true, 0)

	// Act
	err := repo.Create(db, &models.TalentImage{TalentID: talent.ID, Image: "b.png", IsPrimary: true})

	// Assert
	assert.ErrorIs(t, err, repositories.ErrPrimaryImageConflict)

	// Неосновные изображения индекс не ограничивает
	createImage(t, db, talent.ID, false, 1)
	createImage(t, db, talent.ID, false, 2)
	count, err := repo.CountByTalent(db, talent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestTalentImageRepository_DemoteAndMarkPrimary(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewTalentImageRepository()
	talent := createTalent(t, db)
	first := createImage(t, db, talent.ID, true, 0)
	second := createImage(t, db, talent.ID, false, 1)

	// MarkPrimary без DemoteOthers упирается в индекс
	assert.ErrorIs(t, repo.MarkPrimary(db, second.ID), repositories.ErrPrimaryImageConflict)

	require.NoError(t, repo.DemoteOthers(db, talent.ID, second.ID))
	require.NoError(t, repo.MarkPrimary(db, second.ID))

	images, err := repo.ListByTalent(db, talent.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, second.ID, images[0].ID, "основное изображение идет первым")
	assert.True(t, images[0].IsPrimary)
	assert.Equal(t, first.ID, images[1].ID)
	assert.False(t, images[1].IsPrimary)
}

func TestTalentImageRepository_FirstInOrderAndSortOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewTalentImageRepository()
	talent := createTalent(t, db)

	_, err := repo.FirstInOrder(db, talent.ID)
	assert.ErrorIs(t, err, repositories.ErrTalentImageNotFound)

	a := createImage(t, db, talent.ID, false, 5)
	b := createImage(t, db, talent.ID, false, 2)

	first, err := repo.FirstInOrder(db, talent.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, first.ID)

	require.NoError(t, repo.UpdateSortOrder(db, a.ID, 0))
	first, err = repo.FirstInOrder(db, talent.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, first.ID)

	assert.ErrorIs(t, repo.UpdateSortOrder(db, 9999, 1), repositories.ErrTalentImageNotFound)
}

func TestTalentImageRepository_FindAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repositories.NewTalentImageRepository()
	talent := createTalent(t, db)
	img := createImage(t, db, talent.ID, true, 0)

	_, err := repo.FindByID(db, talent.ID+1, img.ID)
	assert.ErrorIs(t, err, repositories.ErrTalentImageNotFound, "изображение чужого таланта не находится")

	found, err := repo.FindByID(db, talent.ID, img.ID)
	require.NoError(t, err)
	assert.True(t, found.IsPrimary)

	require.NoError(t, repo.Delete(db, img.ID))
	assert.ErrorIs(t, repo.Delete(db, img.ID), repositories.ErrTalentImageNotFound)

	createImage(t, db, talent.ID, true, 0)
	createImage(t, db, talent.ID, false, 1)
	require.NoError(t, repo.DeleteByTalent(db, talent.ID))
	count, err := repo.CountByTalent(db, talent.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
