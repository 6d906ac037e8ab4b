package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hris-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":     "user-1",
		"company_id":  "company-1",
		"employee_id": "emp-1",
		"role":        "hr",
		"exp":         time.Now().Add(time.Hour).Unix(),
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", testSecret)

	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":     c.GetString("user_id"),
			"employee_id": c.GetString("employee_id"),
			"role":        c.GetString("role"),
		})
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims()))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"role":"hr"`)
	})

	t.Run("query token for websocket handshake", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me?access_token="+signToken(t, validClaims()), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token not found")
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("missing employee claim", func(t *testing.T) {
		claims := validClaims()
		delete(claims, "employee_id")
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})
}

type fakeRBAC struct {
	canFn func(role, resource, action string) (bool, error)
}

func (f *fakeRBAC) Can(role, resource, action string) (bool, error) {
	return f.canFn(role, resource, action)
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeRBAC{canFn: func(role, resource, action string) (bool, error) {
		if role == "boom" {
			return false, errors.New("enforcer down")
		}
		return role == "hr" && resource == "payroll" && action == "calculate", nil
	}}

	newRouter := func(role string) *gin.Engine {
		r := gin.New()
		r.POST("/payrolls/calculate",
			func(c *gin.Context) { c.Set("role", role) },
			middleware.RBACAuthorize(svc, "payroll", "calculate"),
			func(c *gin.Context) { c.Status(http.StatusNoContent) },
		)
		return r
	}

	cases := []struct {
		role string
		want int
	}{
		{"hr", http.StatusNoContent},
		{"employee", http.StatusForbidden},
		{"", http.StatusForbidden},
		{"boom", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		newRouter(tc.role).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payrolls/calculate", nil))
		assert.Equal(t, tc.want, w.Code, "role=%q", tc.role)
	}
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()
	ttl := time.Hour
	cacheKey := middleware.IdempotencyCacheKey("/payrolls/calculate", "user-1", "key-1")
	lockKey := cacheKey + ":lock"
	stored := `{"status":201,"body":{"ok":true}}`

	calls := 0
	r := gin.New()
	r.POST("/payrolls/calculate",
		func(c *gin.Context) { c.Set("user_id_validated", "user-1") },
		middleware.Idempotency(rdb, ttl),
		func(c *gin.Context) {
			calls++
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		},
	)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/payrolls/calculate", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("first request runs handler and stores response", func(t *testing.T) {
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, stored, ttl).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := send()
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeat replays stored response", func(t *testing.T) {
		mock.ExpectGet(cacheKey).SetVal(stored)

		w := send()
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is rejected", func(t *testing.T) {
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := send()
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRateLimitByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x",
		func(c *gin.Context) { c.Set("user_id", "user-1") },
		middleware.RateLimitByUser(0.001, 1),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/x", nil))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "rid-42", w.Body.String())
	assert.Equal(t, "rid-42", w.Header().Get("X-Request-ID"))
}
