// Package social извлекает личность пользователя из токенов внешних
// провайдеров (Apple, Google, Facebook, Microsoft).
package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"castboard_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoIdentity - провайдер не подтвердил токен. Любая ошибка сети,
// ответа или разбора приводит к ней.
var ErrNoIdentity = errors.New("social: no identity")

const (
	GoogleTokenInfoURL = "https://www.googleapis.com/oauth2/v3/tokeninfo"
	FacebookMeURL      = "https://graph.facebook.com/me"
	MicrosoftMeURL     = "https://graph.microsoft.com/v1.0/me"
)

// Identity - данные, которые удалось получить от провайдера.
type Identity struct {
	Email         string
	FullName      string
	ProfilePicURL string
}

// Verifier проверяет токен и возвращает личность пользователя.
type Verifier interface {
	Verify(ctx context.Context, provider models.AuthProvider, token string) (*Identity, error)
}

// Endpoints позволяет подменить адреса провайдеров (в тестах).
type Endpoints struct {
	GoogleTokenInfo string
	FacebookMe      string
	MicrosoftMe     string
}

// Decoder - реализация Verifier поверх HTTP API провайдеров.
type Decoder struct {
	client    *http.Client
	endpoints Endpoints
}

func NewDecoder(timeout time.Duration, endpoints *Endpoints) *Decoder {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	ep := Endpoints{
		GoogleTokenInfo: GoogleTokenInfoURL,
		FacebookMe:      FacebookMeURL,
		MicrosoftMe:     MicrosoftMeURL,
	}
	if endpoints != nil {
		ep = *endpoints
	}
	return &Decoder{
		client:    &http.Client{Timeout: timeout},
		endpoints: ep,
	}
}

func (d *Decoder) Verify(ctx context.Context, provider models.AuthProvider, token string) (*Identity, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoIdentity
	}

	var (
		id  *Identity
		err error
	)
	switch provider {
	case models.AuthProviderApple:
		id, err = decodeApple(token)
	case models.AuthProviderGoogle:
		id, err = d.decodeGoogle(ctx, token)
	case models.AuthProviderFacebook:
		id, err = d.decodeFacebook(ctx, token)
	case models.AuthProviderMicrosoft:
		id, err = d.decodeMicrosoft(ctx, token)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", ErrNoIdentity, provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoIdentity, provider, err)
	}
	if id.Email == "" {
		return nil, fmt.Errorf("%w: %s: token carries no email", ErrNoIdentity, provider)
	}
	return id, nil
}

// decodeApple читает claims identity token без проверки подписи.
func decodeApple(token string) (*Identity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return &Identity{Email: email, FullName: name}, nil
}

func (d *Decoder) decodeGoogle(ctx context.Context, token string) (*Identity, error) {
	q := url.Values{"id_token": {token}}
	var payload struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := d.getJSON(ctx, d.endpoints.GoogleTokenInfo+"?"+q.Encode(), "", &payload); err != nil {
		return nil, err
	}
	return &Identity{Email: payload.Email, FullName: payload.Name, ProfilePicURL: payload.Picture}, nil
}

func (d *Decoder) decodeFacebook(ctx context.Context, token string) (*Identity, error) {
	q := url.Values{"fields": {"id,name,email"}, "access_token": {token}}
	var payload struct {
		Email string          `json:"email"`
		Name  string          `json:"name"`
		Error json.RawMessage `json:"error"`
	}
	if err := d.getJSON(ctx, d.endpoints.FacebookMe+"?"+q.Encode(), "", &payload); err != nil {
		return nil, err
	}
	if len(payload.Error) > 0 {
		return nil, errors.New("provider returned an error payload")
	}
	return &Identity{Email: payload.Email, FullName: payload.Name}, nil
}

func (d *Decoder) decodeMicrosoft(ctx context.Context, token string) (*Identity, error) {
	var payload struct {
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
		DisplayName       string `json:"displayName"`
	}
	if err := d.getJSON(ctx, d.endpoints.MicrosoftMe, token, &payload); err != nil {
		return nil, err
	}
	email := payload.Mail
	if email == "" {
		email = payload.UserPrincipalName
	}
	return &Identity{Email: email, FullName: payload.DisplayName}, nil
}

func (d *Decoder) getJSON(ctx context.Context, endpoint, bearer string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out)
}
