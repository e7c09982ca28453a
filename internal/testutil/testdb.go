package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"castboard_backend/database"
	"castboard_backend/internal/auth"
	"castboard_backend/internal/email"
	"castboard_backend/internal/logger"
	"castboard_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var initLogger sync.Once

// NewTestDB открывает отдельную in-memory SQLite и прогоняет миграции.
// Одно соединение: так все запросы видят одну и ту же базу.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	initLogger.Do(func() { logger.Init("test") })

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Не удалось открыть тестовую БД")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db), "Миграция тестовой БД не должна падать")
	return db
}

// CreateUser создает пользователя с хешированным паролем. По умолчанию
// активный и верифицированный.
func CreateUser(t *testing.T, db *gorm.DB, user *models.User, rawPassword string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(rawPassword)
	require.NoError(t, err, "Не удалось хешировать пароль")
	user.PasswordHash = hash
	user.IsActive = true
	if user.Role == "" {
		user.Role = models.UserRoleClient
	}
	if user.AuthProvider == "" {
		user.AuthProvider = models.AuthProviderPassword
	}

	require.NoError(t, db.Create(user).Error, "Не удалось создать пользователя %s", user.Email)
	return user
}

// Clock - управляемые часы для проверки сроков OTP.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SentOTP - одно отправленное письмо с кодом
type SentOTP struct {
	To      string
	Code    string
	Purpose email.OTPPurpose
}

// Notifier запоминает коды вместо отправки. Err имитирует сбой доставки.
type Notifier struct {
	mu   sync.Mutex
	sent []SentOTP
	Err  error
}

func (n *Notifier) SendOTP(ctx context.Context, to, code string, purpose email.OTPPurpose, ttl time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, SentOTP{To: to, Code: code, Purpose: purpose})
	return n.Err
}

func (n *Notifier) Sent() []SentOTP {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]SentOTP(nil), n.sent...)
}

// LastCode - последний код, отправленный на адрес
func (n *Notifier) LastCode(to string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].To == to {
			return n.sent[i].Code
		}
	}
	return ""
}
