package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"castboard_backend/internal/app"
	"castboard_backend/internal/auth"
	"castboard_backend/internal/imageprocessor"
	"castboard_backend/internal/models"
	"castboard_backend/internal/services"
	"castboard_backend/internal/social"
	"castboard_backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	TestJWTSecret = "test_secret_key_for_castboard_12345"
	TestPassword  = "password123"
)

// TestServer - приложение целиком поверх SQLite и хранилища в памяти
type TestServer struct {
	Server   *httptest.Server
	DB       *gorm.DB
	Storage  *storage.MemoryStorage
	Notifier *Notifier
	Clock    *Clock
	Tokens   *auth.TokenManager
	Social   social.StaticVerifier
	Services *services.ServiceContainer
}

// NewServices собирает контейнер сервисов с тестовыми зависимостями.
func NewServices(store storage.Storage, notifier *Notifier, clock *Clock, verifier social.Verifier) (*services.ServiceContainer, *auth.TokenManager) {
	tokens := auth.NewTokenManager(TestJWTSecret, time.Hour, 24*time.Hour, 10*time.Minute)
	container := services.NewServiceContainer(services.Dependencies{
		Tokens:   tokens,
		Notifier: notifier,
		Social:   verifier,
		Storage:  store,
		Images:   imageprocessor.NewProcessor(85, 3<<20, 64),
		OTPTTL:   30 * time.Minute,
		Now:      clock.Now,
	})
	return container, tokens
}

// NewTestServer создает и настраивает тестовый сервер и БД
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := NewTestDB(t)
	ts := &TestServer{
		DB:       db,
		Storage:  storage.NewMemoryStorage("/media"),
		Notifier: &Notifier{},
		Clock:    NewClock(time.Now().UTC()),
		Social:   social.StaticVerifier{},
	}
	ts.Services, ts.Tokens = NewServices(ts.Storage, ts.Notifier, ts.Clock, ts.Social)

	router := app.NewRouter(db, ts.Tokens, ts.Services, nil, "")
	ts.Server = httptest.NewServer(router)
	t.Cleanup(ts.Server.Close)
	return ts
}

// SendRequest отправляет JSON-запрос и возвращает ответ и тело строкой.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Ошибка кодирования JSON для запроса")
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err, "Ошибка создания HTTP-запроса")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req, token)
}

// SendMultipart отправляет multipart/form-data с одним файлом.
func (ts *TestServer) SendMultipart(t *testing.T, path, token string, fields map[string]string, fileField, fileName string, data []byte) (*http.Response, string) {
	t.Helper()

	body, contentType := MultipartBody(t, fields, fileField, fileName, data)
	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, body)
	require.NoError(t, err, "Ошибка создания HTTP-запроса")
	req.Header.Set("Content-Type", contentType)
	return ts.do(t, req, token)
}

func (ts *TestServer) do(t *testing.T, req *http.Request, token string) (*http.Response, string) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "Ошибка отправки HTTP-запроса")
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	require.NoError(t, err, "Ошибка чтения тела ответа")
	return res, string(resBodyBytes)
}

// Envelope - общий конверт ответа
type Envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	ErrorCode string          `json:"error_code,omitempty"`
}

// DecodeEnvelope разбирает конверт и, если out != nil, его data.
func DecodeEnvelope(t *testing.T, body string, out interface{}) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(body), &env), "Не удалось распарсить JSON: %s", body)
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out), "Не удалось распарсить data: %s", string(env.Data))
	}
	return env
}

// CreateAndLoginUser создает пользователя и логинит его через API.
func (ts *TestServer) CreateAndLoginUser(t *testing.T, email string, role models.UserRole) (string, *models.User) {
	t.Helper()

	user := CreateUser(t, ts.DB, &models.User{
		Email:      email,
		FullName:   "Test User",
		Role:       role,
		IsVerified: true,
	}, TestPassword)

	res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/account/login", "", map[string]interface{}{
		"email":    email,
		"password": TestPassword,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+body)

	var data struct {
		Tokens struct {
			Access string `json:"access"`
		} `json:"tokens"`
	}
	DecodeEnvelope(t, body, &data)
	require.NotEmpty(t, data.Tokens.Access, "Токен не должен быть пустым")
	return data.Tokens.Access, user
}

// CreateAndLoginSuperuser - суперпользователь с ролью Client
func (ts *TestServer) CreateAndLoginSuperuser(t *testing.T, email string) (string, *models.User) {
	t.Helper()

	user := CreateUser(t, ts.DB, &models.User{
		Email:       email,
		FullName:    "Admin",
		IsVerified:  true,
		IsStaff:     true,
		IsSuperuser: true,
	}, TestPassword)

	issued, err := ts.Tokens.GenerateAccessToken(auth.Subject{
		UserID:      user.ID,
		Role:        string(user.Role),
		IsSuperuser: true,
	})
	require.NoError(t, err)
	return issued.Token, user
}
