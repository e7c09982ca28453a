package services_test

import (
	"context"
	"testing"
	"time"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/models"
	"castboard_backend/internal/services"
	"castboard_backend/internal/social"
	"castboard_backend/internal/storage"
	"castboard_backend/internal/testutil"
	"castboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture - сервисы поверх чистой базы и хранилища в памяти
type fixture struct {
	ctx      context.Context
	db       *gorm.DB
	svc      *services.ServiceContainer
	store    *storage.MemoryStorage
	notifier *testutil.Notifier
	clock    *testutil.Clock
	social   social.StaticVerifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:      context.Background(),
		db:       testutil.NewTestDB(t),
		store:    storage.NewMemoryStorage("/media"),
		notifier: &testutil.Notifier{},
		clock:    testutil.NewClock(time.Now().UTC()),
		social:   social.StaticVerifier{},
	}
	f.svc, _ = testutil.NewServices(f.store, f.notifier, f.clock, f.social)
	return f
}

func (f *fixture) user(t *testing.T, email string, role models.UserRole) (*models.User, auth.Actor) {
	t.Helper()
	u := testutil.CreateUser(t, f.db, &models.User{Email: email, Role: role, IsVerified: true}, testutil.TestPassword)
	return u, auth.Actor{UserID: u.ID, Role: u.Role}
}

func (f *fixture) superuser(t *testing.T) auth.Actor {
	t.Helper()
	u := testutil.CreateUser(t, f.db, &models.User{Email: "admin@example.com", IsVerified: true, IsStaff: true, IsSuperuser: true}, testutil.TestPassword)
	return auth.Actor{UserID: u.ID, Role: u.Role, IsSuperuser: true}
}

func (f *fixture) reload(t *testing.T, id uint) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, f.db.First(&u, "user_id = ?", id).Error)
	return &u
}

// requireCode проверяет, что err - AppError с нужным кодом
func requireCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "ожидалась AppError, получено: %v", err)
	require.Equal(t, code, appErr.Code, "неожиданный код: %v", err)
	return appErr
}

// fieldErrors - детали ошибки валидации
func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	appErr := requireCode(t, err, apperrors.CodeValidationFailed)
	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok, "детали должны быть map[string]string, получено %T", appErr.Details)
	return details
}

func actorOf(u *models.User) auth.Actor {
	return auth.Actor{UserID: u.ID, Role: u.Role, IsSuperuser: u.IsSuperuser}
}
