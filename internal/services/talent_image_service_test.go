package services_test

import (
	"strings"
	"testing"

	"castboard_backend/internal/models"
	"castboard_backend/internal/services/dto"
	"castboard_backend/internal/testutil"
	"castboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primaryIDs(images []dto.TalentImageResponse) []uint {
	var ids []uint
	for _, img := range images {
		if img.IsPrimary {
			ids = append(ids, img.ImageID)
		}
	}
	return ids
}

func TestAddImage_FirstBecomesPrimary(t *testing.T) {
	// Arrange
	f := newFixture(t)
	_, agent := f.user(t, "agent@example.com", models.UserRoleAgent)
	talent := createTalent(t, f, agent, "Lena")

	// Act: первое изображение без is_primary
	first, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, agent, talent.TalentID,
		testutil.FileHeader(t, "image", "a.png", testutil.PNGBytes(t, 200, 100)), &dto.AddTalentImageRequest{SortOrder: 3})

	// Assert
	require.NoError(t, err)
	assert.True(t, first.IsPrimary)
	assert.Equal(t, 3, first.SortOrder)
	assert.Equal(t, "image/png", first.ContentType)
	assert.True(t, strings.HasPrefix(first.URL, "/media/talent_images/"), first.URL)
	assert.NotEmpty(t, first.ThumbnailURL)
	assert.Len(t, f.store.Keys(), 2, "оригинал и миниатюра")

	second, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, agent, talent.TalentID,
		testutil.FileHeader(t, "image", "b.jpg", testutil.JPEGBytes(t, 100, 100)), &dto.AddTalentImageRequest{})
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)
	assert.Equal(t, "image/jpeg", second.ContentType)
}

func TestAddImage_PrimaryRequestDemotesOthers(t *testing.T) {
	f := newFixture(t)
	_, agent := f.user(t, "agent@example.com", models.UserRoleAgent)
	talent := createTalent(t, f, agent, "Lena")
	file := func() []byte { return testutil.PNGBytes(t, 50, 50) }

	_, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, agent, talent.TalentID,
		testutil.FileHeader(t, "image", "a.png", file()), &dto.AddTalentImageRequest{})
	require.NoError(t, err)
	newPrimary, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, agent, talent.TalentID,
		testutil.FileHeader(t, "image", "b.png", file()), &dto.AddTalentImageRequest{IsPrimary: true})
	require.NoError(t, err)

	images, err := f.svc.TalentImageService.ListImages(f.ctx, f.db, talent.TalentID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, []uint{newPrimary.ImageID}, primaryIDs(images))
	assert.Equal(t, newPrimary.ImageID, images[0].ImageID, "основное изображение первым")
}

func TestAddImage_Rejections(t *testing.T) {
	f := newFixture(t)
	_, owner := f.user(t, "owner@example.com", models.UserRoleAgent)
	_, rival := f.user(t, "rival@example.com", models.UserRoleAgent)
	talent := createTalent(t, f, owner, "Lena")

	t.Run("не изображение", func(t *testing.T) {
		_, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, owner, talent.TalentID,
			testutil.FileHeader(t, "image", "notes.txt", []byte("plain text, not an image")), &dto.AddTalentImageRequest{})
		requireCode(t, err, apperrors.CodeInvalidImage)
	})

	t.Run("файл не передан", func(t *testing.T) {
		_, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, owner, talent.TalentID, nil, &dto.AddTalentImageRequest{})
		assert.Contains(t, fieldErrors(t, err), "image")
	})

	t.Run("чужой агент", func(t *testing.T) {
		_, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, rival, talent.TalentID,
			testutil.FileHeader(t, "image", "a.png", testutil.PNGBytes(t, 10, 10)), &dto.AddTalentImageRequest{})
		assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)
	})

	t.Run("несуществующий талант", func(t *testing.T) {
		_, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, owner, 9999,
			testutil.FileHeader(t, "image", "a.png", testutil.PNGBytes(t, 10, 10)), &dto.AddTalentImageRequest{})
		assert.ErrorIs(t, err, apperrors.ErrTalentNotFound)
	})

	assert.Empty(t, f.store.Keys(), "отклоненные файлы не сохраняются")
}

func TestSetPrimaryAndDeletePromotesNext(t *testing.T) {
	// Arrange
	f := newFixture(t)
	_, agent := f.user(t, "agent@example.com", models.UserRoleAgent)
	talent := createTalent(t, f, agent, "Lena")
	var ids []uint
	for i, order := range []int{0, 2, 1} {
		img, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, agent, talent.TalentID,
			testutil.FileHeader(t, "image", "img.png", testutil.PNGBytes(t, 20+i, 20)), &dto.AddTalentImageRequest{SortOrder: order})
		require.NoError(t, err)
		ids = append(ids, img.ImageID)
	}

	// Act: основным становится второе
	resp, err := f.svc.TalentImageService.SetPrimary(f.ctx, f.db, agent, talent.TalentID, ids[1])
	require.NoError(t, err)
	assert.True(t, resp.IsPrimary)

	images, err := f.svc.TalentImageService.ListImages(f.ctx, f.db, talent.TalentID)
	require.NoError(t, err)
	assert.Equal(t, []uint{ids[1]}, primaryIDs(images))

	// Повторный вызов для уже основного ничего не ломает
	_, err = f.svc.TalentImageService.SetPrimary(f.ctx, f.db, agent, talent.TalentID, ids[1])
	require.NoError(t, err)

	// Удаление основного продвигает следующее по sort_order
	keysBefore := len(f.store.Keys())
	require.NoError(t, f.svc.TalentImageService.DeleteImage(f.ctx, f.db, agent, talent.TalentID, ids[1]))

	// Assert
	images, err = f.svc.TalentImageService.ListImages(f.ctx, f.db, talent.TalentID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, []uint{ids[0]}, primaryIDs(images), "sort_order 0 идет раньше 1")
	assert.Len(t, f.store.Keys(), keysBefore-2)

	err = f.svc.TalentImageService.DeleteImage(f.ctx, f.db, agent, talent.TalentID, ids[1])
	assert.ErrorIs(t, err, apperrors.ErrTalentImageNotFound)
}

func TestDeleteLastImageLeavesNoPrimary(t *testing.T) {
	f := newFixture(t)
	_, agent := f.user(t, "agent@example.com", models.UserRoleAgent)
	talent := createTalent(t, f, agent, "Lena")
	img, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, agent, talent.TalentID,
		testutil.FileHeader(t, "image", "a.png", testutil.PNGBytes(t, 30, 30)), &dto.AddTalentImageRequest{})
	require.NoError(t, err)

	require.NoError(t, f.svc.TalentImageService.DeleteImage(f.ctx, f.db, agent, talent.TalentID, img.ImageID))

	images, err := f.svc.TalentImageService.ListImages(f.ctx, f.db, talent.TalentID)
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Empty(t, f.store.Keys())
}

func TestUpdateSortOrder(t *testing.T) {
	f := newFixture(t)
	_, agent := f.user(t, "agent@example.com", models.UserRoleAgent)
	admin := f.superuser(t)
	talent := createTalent(t, f, agent, "Lena")
	img, err := f.svc.TalentImageService.AddImage(f.ctx, f.db, agent, talent.TalentID,
		testutil.FileHeader(t, "image", "a.png", testutil.PNGBytes(t, 30, 30)), &dto.AddTalentImageRequest{})
	require.NoError(t, err)

	_, err = f.svc.TalentImageService.UpdateSortOrder(f.ctx, f.db, agent, talent.TalentID, img.ImageID, -1)
	assert.Contains(t, fieldErrors(t, err), "sort_order")

	resp, err := f.svc.TalentImageService.UpdateSortOrder(f.ctx, f.db, admin, talent.TalentID, img.ImageID, 7)
	require.NoError(t, err, "суперпользователь может менять чужие изображения")
	assert.Equal(t, 7, resp.SortOrder)
	assert.True(t, resp.IsPrimary)
}
