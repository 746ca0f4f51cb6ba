package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"epaperhub/pkg/database"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	tokens := TokenService{Secret: []byte("test-secret"), Issuer: "epaperhub", Duration: time.Hour}
	h := NewHandler(NewRepo(db), tokens)

	r := gin.New()
	h.RegisterRoutes(r.Group("/auth"))

	protected := r.Group("/users")
	protected.Use(AuthMiddleware(tokens))
	protected.GET("/me", func(c *gin.Context) {
		claims := MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{"username": claims.Username})
	})
	return r
}

func postJSON(r *gin.Engine, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginFlow(t *testing.T) {
	r := setupRouter(t)

	w := postJSON(r, "/auth/register", `{"username":"reader","password":"secret-pass"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var reg struct {
		Token string `json:"token"`
		User  struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.Token, "register auto-logs-in")
	assert.Equal(t, "reader", reg.User.Username)

	w = postJSON(r, "/auth/login", `{"username":"reader","password":"secret-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	// the login token passes the middleware
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"reader"}`, rec.Body.String())
}

func TestRegister_Validation(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"short username", `{"username":"ab","password":"secret-pass"}`, http.StatusBadRequest},
		{"short password", `{"username":"reader","password":"short"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(r, "/auth/register", tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	r := setupRouter(t)

	w := postJSON(r, "/auth/register", `{"username":"reader","password":"secret-pass"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/auth/register", `{"username":"reader","password":"other-pass-1"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	r := setupRouter(t)

	postJSON(r, "/auth/register", `{"username":"reader","password":"secret-pass"}`)

	w := postJSON(r, "/auth/login", `{"username":"reader","password":"wrong-pass-1"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/auth/login", `{"username":"nobody","password":"secret-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "unknown user and bad password are indistinguishable")
}

func TestAuthMiddleware_RejectsBadTokens(t *testing.T) {
	r := setupRouter(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
