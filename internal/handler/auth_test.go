package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookhaven/book-catalogue/internal/config"
	"github.com/bookhaven/book-catalogue/internal/middleware"
	"github.com/bookhaven/book-catalogue/internal/model"
	"github.com/bookhaven/book-catalogue/internal/repository"
	"github.com/bookhaven/book-catalogue/internal/utils"
)

const testSecret = "handler-test-secret"

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       testSecret,
		AccessTTLMin:    60,
		RefreshTTLHours: 24,
		BcryptCost:      bcrypt.MinCost,
	}
}

// fakeUserStore is an in-memory credential store with the same uniqueness
// and session-bookkeeping behavior as the MySQL-backed repository.
type fakeUserStore struct {
	nextID uint64
	users  map[uint64]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[uint64]*model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, userName, email, password string, role model.Role, cost int) (uint64, error) {
	for _, u := range f.users {
		if u.UserName == userName || u.Email == email {
			return 0, repository.ErrDuplicateUser
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	id := f.nextID
	f.nextID++
	f.users[id] = &model.User{ID: id, UserName: userName, Email: email, PasswordHash: hash, Role: role}
	return id, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	if u, ok := f.users[id]; ok {
		return *u, nil
	}
	return model.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) TouchSession(_ context.Context, id uint64, accessExp, refreshExp time.Time) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.AccessExp = &accessExp
	u.RefreshExp = &refreshExp
	return nil
}

func (f *fakeUserStore) ClearSession(_ context.Context, id uint64) error {
	u, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.AccessExp = nil
	u.RefreshExp = nil
	return nil
}

func postJSON(t *testing.T, h echo.HandlerFunc, body string, cookie string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: cookie})
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec
}

func registerAlice(t *testing.T, h *AuthHandler) {
	t.Helper()
	rec := postJSON(t, h.Register,
		`{"userName":"alice","email":"a@x.com","password":"pw123456","role":"user"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegister(t *testing.T) {
	h := NewAuthHandler(testConfig(), newFakeUserStore())
	registerAlice(t, h)
}

func TestRegister_Duplicate(t *testing.T) {
	store := newFakeUserStore()
	h := NewAuthHandler(testConfig(), store)
	registerAlice(t, h)

	// Same username, different email
	rec := postJSON(t, h.Register,
		`{"userName":"alice","email":"other@x.com","password":"pw123456"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")

	// Same email, different username
	rec = postJSON(t, h.Register,
		`{"userName":"alice2","email":"a@x.com","password":"pw123456"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// No extra record was created either time
	assert.Len(t, store.users, 1)
}

func TestRegister_InvalidRole(t *testing.T) {
	h := NewAuthHandler(testConfig(), newFakeUserStore())
	rec := postJSON(t, h.Register,
		`{"userName":"bob","email":"b@x.com","password":"pw123456","role":"owner"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid role")
}

func TestLogin(t *testing.T) {
	store := newFakeUserStore()
	h := NewAuthHandler(testConfig(), store)
	registerAlice(t, h)

	rec := postJSON(t, h.Login, `{"email":"a@x.com","password":"pw123456"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	// The decoded role equals the stored user's role.
	claims, err := utils.ParseToken(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, "alice", claims.UserName)

	// The token cookie was set http-only.
	res := rec.Result()
	var cookie *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == middleware.TokenCookie {
			cookie = ck
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, resp.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	// Session bookkeeping advanced on the stored record.
	u, err := store.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, u.AccessExp)
	require.NotNil(t, u.RefreshExp)
	assert.True(t, u.RefreshExp.After(*u.AccessExp))
}

func TestLogin_UnknownEmail(t *testing.T) {
	h := NewAuthHandler(testConfig(), newFakeUserStore())
	rec := postJSON(t, h.Login, `{"email":"nobody@x.com","password":"pw123456"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "User not found")
}

func TestLogin_WrongPassword(t *testing.T) {
	h := NewAuthHandler(testConfig(), newFakeUserStore())
	registerAlice(t, h)
	rec := postJSON(t, h.Login, `{"email":"a@x.com","password":"wrong-pass"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func loginAlice(t *testing.T, h *AuthHandler) string {
	t.Helper()
	rec := postJSON(t, h.Login, `{"email":"a@x.com","password":"pw123456"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token
}

func TestRefresh(t *testing.T) {
	store := newFakeUserStore()
	h := NewAuthHandler(testConfig(), store)
	registerAlice(t, h)
	token := loginAlice(t, h)

	rec := postJSON(t, h.Refresh, "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)

	claims, err := utils.ParseToken(testSecret, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserName)
}

func TestRefresh_NoCookie(t *testing.T) {
	h := NewAuthHandler(testConfig(), newFakeUserStore())
	rec := postJSON(t, h.Refresh, "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefresh_WindowExpired(t *testing.T) {
	store := newFakeUserStore()
	h := NewAuthHandler(testConfig(), store)
	registerAlice(t, h)
	token := loginAlice(t, h)

	// Age the stored refresh expiry past now; the token itself is still
	// cryptographically valid.
	for _, u := range store.users {
		past := time.Now().UTC().Add(-time.Minute)
		u.RefreshExp = &past
	}

	rec := postJSON(t, h.Refresh, "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Refresh token expired")
}

func TestRefresh_AfterLogout(t *testing.T) {
	store := newFakeUserStore()
	h := NewAuthHandler(testConfig(), store)
	registerAlice(t, h)
	token := loginAlice(t, h)

	rec := postJSON(t, h.Logout, "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logged out successfully")

	// Bookkeeping cleared -> refresh is rejected even with a valid token.
	rec = postJSON(t, h.Refresh, "", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Refresh token expired")
}

func TestLogout_NoCookie(t *testing.T) {
	h := NewAuthHandler(testConfig(), newFakeUserStore())
	rec := postJSON(t, h.Logout, "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No refresh token provided")
}
