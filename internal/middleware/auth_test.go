package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spider_edu_backend/internal/config"
	"spider_edu_backend/internal/model"
	"spider_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	return cfg
}

func testToken(t *testing.T, isSuperuser bool) string {
	t.Helper()
	user := &model.User{
		BaseModel:   model.BaseModel{ID: 3},
		Username:    "tester",
		IsSuperuser: isSuperuser,
	}
	token, err := util.GenerateJWT(user, "test-secret", time.Hour)
	require.NoError(t, err)
	return token
}

func authTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	r.GET("/admin", AuthMiddleware(cfg), SuperuserMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	router := authTestRouter(testConfig())

	tests := []struct {
		name       string
		setup      func(req *http.Request)
		wantStatus int
	}{
		{
			name:       "未携带令牌",
			setup:      func(req *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "Cookie携带合法令牌",
			setup: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: util.AuthCookieName, Value: testToken(t, false)})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "Bearer头携带合法令牌",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+testToken(t, false))
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "伪造令牌",
			setup: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer invalid.token.here")
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSuperuserMiddleware(t *testing.T) {
	router := authTestRouter(testConfig())

	t.Run("普通用户被拒绝", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: util.AuthCookieName, Value: testToken(t, false)})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("管理员放行", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: util.AuthCookieName, Value: testToken(t, true)})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestTryAuthMiddleware_游客放行(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", TryAuthMiddleware(testConfig()), func(c *gin.Context) {
		if util.GetUserFromContext(c) != nil {
			c.String(http.StatusOK, "user")
			return
		}
		c.String(http.StatusOK, "guest")
	})

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "guest", w.Body.String())
}
