package services_test

import (
	"testing"

	"castboard_backend/internal/models"
	"castboard_backend/internal/services/dto"
	"castboard_backend/internal/social"
	"castboard_backend/internal/testutil"
	"castboard_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSignup_CollectsAllFieldErrors(t *testing.T) {
	// Arrange
	f := newFixture(t)
	testutil.CreateUser(t, f.db, &models.User{
		Email:    "taken@example.com",
		Phone:    strPtr("+15550100"),
		Username: strPtr("taken"),
	}, testutil.TestPassword)

	// Act
	_, err := f.svc.AuthService.Signup(f.ctx, f.db, &dto.SignupRequest{
		Email:    "TAKEN@example.com",
		Password: testutil.TestPassword,
		FullName: "Copycat",
		Role:     "Client",
		Phone:    strPtr("+15550100"),
		Username: strPtr("taken"),
	})

	// Assert
	details := fieldErrors(t, err)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "phone")
	assert.Contains(t, details, "username")
	assert.Empty(t, f.notifier.Sent(), "код не отправляется при ошибке")
}

func TestSignup_InvalidRoleAndShortPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AuthService.Signup(f.ctx, f.db, &dto.SignupRequest{
		Email: "x@example.com", Password: testutil.TestPassword, FullName: "X", Role: "Admin",
	})
	assert.Contains(t, fieldErrors(t, err), "role")

	_, err = f.svc.AuthService.Signup(f.ctx, f.db, &dto.SignupRequest{
		Email: "x@example.com", Password: "123", FullName: "X", Role: "Agent",
	})
	assert.Contains(t, fieldErrors(t, err), "password")
}

func TestCheckSignup_ReportsConflictsWithPasswordRule(t *testing.T) {
	f := newFixture(t)
	testutil.CreateUser(t, f.db, &models.User{Email: "taken@example.com"}, testutil.TestPassword)

	fields, err := f.svc.AuthService.CheckSignup(f.ctx, f.db, &dto.SignupRequest{
		Email: "Taken@Example.com", Password: "12345", FullName: "X", Role: "Client",
	})
	require.NoError(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.NotContains(t, fields, "role")

	fields, err = f.svc.AuthService.CheckSignup(f.ctx, f.db, &dto.SignupRequest{
		Email: "free@example.com", Password: testutil.TestPassword, FullName: "X", Role: "Agent",
	})
	require.NoError(t, err)
	assert.Empty(t, fields)
}

func TestSignup_GeneratesUsername(t *testing.T) {
	f := newFixture(t)

	resp := signup(t, f, "generated.name@example.com")

	user := f.reload(t, resp.User.UserID)
	require.NotNil(t, user.Username)
	assert.NotEmpty(t, *user.Username)
	assert.Equal(t, models.AuthProviderPassword, user.AuthProvider)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	user, _ := f.user(t, "login@example.com", models.UserRoleAgent)
	unverified := testutil.CreateUser(t, f.db, &models.User{Email: "fresh@example.com"}, testutil.TestPassword)
	inactive := testutil.CreateUser(t, f.db, &models.User{Email: "gone@example.com"}, testutil.TestPassword)
	require.NoError(t, f.db.Model(&models.User{}).Where("user_id = ?", inactive.ID).Update("is_active", false).Error)

	t.Run("успешный вход", func(t *testing.T) {
		resp, err := f.svc.AuthService.Login(f.ctx, f.db, &dto.LoginRequest{Email: "LOGIN@example.com", Password: testutil.TestPassword})
		require.NoError(t, err)
		assert.Equal(t, user.ID, resp.User.UserID)
		assert.Equal(t, "Agent", resp.User.Role)
		assert.NotEmpty(t, resp.Tokens.Access)
		assert.NotEmpty(t, resp.Tokens.Refresh)
		assert.NotNil(t, f.reload(t, user.ID).LastLogin)
	})

	t.Run("неподтвержденный аккаунт может войти", func(t *testing.T) {
		resp, err := f.svc.AuthService.Login(f.ctx, f.db, &dto.LoginRequest{Email: unverified.Email, Password: testutil.TestPassword})
		require.NoError(t, err)
		assert.False(t, resp.User.IsVerified)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		_, err := f.svc.AuthService.Login(f.ctx, f.db, &dto.LoginRequest{Email: user.Email, Password: "wrong-password"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("неизвестный email", func(t *testing.T) {
		_, err := f.svc.AuthService.Login(f.ctx, f.db, &dto.LoginRequest{Email: "ghost@example.com", Password: testutil.TestPassword})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("деактивированный аккаунт", func(t *testing.T) {
		_, err := f.svc.AuthService.Login(f.ctx, f.db, &dto.LoginRequest{Email: inactive.Email, Password: testutil.TestPassword})
		assert.ErrorIs(t, err, apperrors.ErrAccountInactive)
	})
}

func TestRefreshToken_RotatesAndRejectsReuse(t *testing.T) {
	// Arrange
	f := newFixture(t)
	user, _ := f.user(t, "rotate@example.com", models.UserRoleClient)
	session, err := f.svc.AuthService.Login(f.ctx, f.db, &dto.LoginRequest{Email: user.Email, Password: testutil.TestPassword})
	require.NoError(t, err)

	// Act
	pair, err := f.svc.AuthService.RefreshToken(f.ctx, f.db, session.Tokens.Refresh)

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, session.Tokens.Refresh, pair.Refresh)

	_, err = f.svc.AuthService.RefreshToken(f.ctx, f.db, session.Tokens.Refresh)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "повторное использование отклоняется")

	_, err = f.svc.AuthService.RefreshToken(f.ctx, f.db, pair.Access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "access-токен не подходит для обновления")

	_, err = f.svc.AuthService.RefreshToken(f.ctx, f.db, pair.Refresh)
	assert.NoError(t, err)
}

func TestLogout_Idempotent(t *testing.T) {
	f := newFixture(t)
	user, _ := f.user(t, "bye@example.com", models.UserRoleClient)
	session, err := f.svc.AuthService.Login(f.ctx, f.db, &dto.LoginRequest{Email: user.Email, Password: testutil.TestPassword})
	require.NoError(t, err)

	require.NoError(t, f.svc.AuthService.Logout(f.ctx, f.db, session.Tokens.Refresh))
	require.NoError(t, f.svc.AuthService.Logout(f.ctx, f.db, session.Tokens.Refresh))

	_, err = f.svc.AuthService.RefreshToken(f.ctx, f.db, session.Tokens.Refresh)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	assert.ErrorIs(t, f.svc.AuthService.Logout(f.ctx, f.db, "garbage"), apperrors.ErrInvalidToken)
}

func TestSocialLogin(t *testing.T) {
	f := newFixture(t)
	f.social["google-new"] = social.Identity{Email: "Social@Example.com", FullName: "Sofia Social"}
	f.social["google-pending"] = social.Identity{Email: "pending@example.com"}
	pending := testutil.CreateUser(t, f.db, &models.User{Email: "pending@example.com"}, testutil.TestPassword)

	t.Run("создает подтвержденный аккаунт", func(t *testing.T) {
		resp, err := f.svc.AuthService.SocialLogin(f.ctx, f.db, &dto.SocialLoginRequest{Provider: "google", Token: "google-new", Role: "Agent"})
		require.NoError(t, err)
		assert.Equal(t, "social@example.com", resp.User.Email)
		assert.Equal(t, "Sofia Social", resp.User.FullName)
		assert.Equal(t, "Agent", resp.User.Role)
		assert.True(t, resp.User.IsVerified)
		assert.Equal(t, "google", resp.User.AuthProvider)
		assert.NotEmpty(t, resp.Tokens.Refresh)

		again, err := f.svc.AuthService.SocialLogin(f.ctx, f.db, &dto.SocialLoginRequest{Provider: "google", Token: "google-new"})
		require.NoError(t, err)
		assert.Equal(t, resp.User.UserID, again.User.UserID, "второй вход находит тот же аккаунт")
	})

	t.Run("без роли создает клиента", func(t *testing.T) {
		f.social["facebook-norole"] = social.Identity{Email: "norole@example.com"}

		resp, err := f.svc.AuthService.SocialLogin(f.ctx, f.db, &dto.SocialLoginRequest{Provider: "facebook", Token: "facebook-norole"})
		require.NoError(t, err)
		assert.Equal(t, "Client", resp.User.Role)
		assert.Equal(t, "norole", resp.User.FullName)
	})

	t.Run("подтверждает существующий аккаунт", func(t *testing.T) {
		resp, err := f.svc.AuthService.SocialLogin(f.ctx, f.db, &dto.SocialLoginRequest{Provider: "google", Token: "google-pending"})
		require.NoError(t, err)
		assert.Equal(t, pending.ID, resp.User.UserID)
		assert.True(t, f.reload(t, pending.ID).IsVerified)
	})

	t.Run("неверный токен", func(t *testing.T) {
		_, err := f.svc.AuthService.SocialLogin(f.ctx, f.db, &dto.SocialLoginRequest{Provider: "apple", Token: "nope"})
		assert.ErrorIs(t, err, apperrors.ErrSocialTokenInvalid)
	})
}
