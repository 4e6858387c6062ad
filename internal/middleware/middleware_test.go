package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

type fakeUsers struct {
	users map[uint64]*models.User
	err   error
}

func (f *fakeUsers) GetUser(_ context.Context, id uint64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return user, nil
}

// newAuthRouter exposes a route that binds the session to a user id and a
// protected route echoing the authenticated user.
func newAuthRouter(users UserLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.POST("/session/:id", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, id)
		_ = session.Save()
		c.Status(http.StatusNoContent)
	})
	r.GET("/protected", RequireAuth(users), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "username": user.Username})
	})
	return r
}

func loginAs(t *testing.T, r *gin.Engine, id uint64) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/session/"+strconv.FormatUint(id, 10), nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestRequireAuth_NoSession(t *testing.T) {
	r := newAuthRouter(&fakeUsers{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"code":"UNAUTHORIZED","error":"Authentication required"}`, w.Body.String())
}

func TestRequireAuth_LoadsUser(t *testing.T) {
	r := newAuthRouter(&fakeUsers{users: map[uint64]*models.User{
		7: {ID: 7, Username: "alice"},
	}})
	cookie := loginAs(t, r, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":7,"username":"alice"}`, w.Body.String())
}

func TestRequireAuth_StaleSession(t *testing.T) {
	r := newAuthRouter(&fakeUsers{users: map[uint64]*models.User{}})
	cookie := loginAs(t, r, 42)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The cleared session is written back to the client
	var refreshed *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			refreshed = c
		}
	}
	require.NotNil(t, refreshed)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(refreshed)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_LookupFailure(t *testing.T) {
	r := newAuthRouter(&fakeUsers{err: errors.New("database is locked")})
	cookie := loginAs(t, r, 7)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "database is locked")
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		value interface{}
		want  uint64
		ok    bool
	}{
		{uint64(3), 3, true},
		{uint(4), 4, true},
		{int(5), 5, true},
		{int64(6), 6, true},
		{-1, 0, false},
		{"7", 0, false},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set(constants.ContextKeyUserID, tt.value)

		got, ok := GetUserID(c)
		assert.Equal(t, tt.ok, ok, "%#v", tt.value)
		assert.Equal(t, tt.want, got, "%#v", tt.value)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetUserID(c)
	assert.False(t, ok)
}

func TestRequireTaskID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/tasks/:id", RequireTaskID(), func(c *gin.Context) {
		taskID, ok := GetTaskID(c)
		require.True(t, ok)
		c.String(http.StatusOK, strconv.FormatUint(taskID, 10))
	})

	tests := []struct {
		path string
		code int
	}{
		{"/tasks/12", http.StatusOK},
		{"/tasks/abc", http.StatusNotFound},
		{"/tasks/-1", http.StatusNotFound},
		{"/tasks/0", http.StatusNotFound},
		{"/tasks/99999999999999999999999", http.StatusNotFound},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.code, w.Code, tt.path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tasks/abc", nil))
	assert.JSONEq(t, `{"code":"NOT_FOUND","error":"Task not found"}`, w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/fail", entry["path"])
	assert.Equal(t, float64(http.StatusInternalServerError), entry["status"])
	assert.Contains(t, entry["errors"], "boom")
}
