package rbac

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hris-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockService struct{}

func (m *mockService) Enforce(req EnforceRequest) (bool, error) {
	return m.Can(req.Role, req.Resource, req.Action)
}

func (m *mockService) Can(role, resource, action string) (bool, error) {
	return role == RoleHR && resource == "payroll" && action == "read", nil
}

func (m *mockService) Permissions(role string) (RolePermissionsResponse, error) {
	return RolePermissionsResponse{Role: role, Permissions: []PermissionResponse{{Resource: "payroll", Action: "read"}}}, nil
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&mockService{})
	router := gin.New()
	router.POST("/rbac/enforce", handler.Enforce)

	t.Run("allowed", func(t *testing.T) {
		body, _ := json.Marshal(EnforceRequest{Role: RoleHR, Resource: "payroll", Action: "read"})
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var env struct {
			Ok   bool            `json:"ok"`
			Data EnforceResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		assert.True(t, env.Data.Allowed)
	})

	t.Run("missing field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBufferString(`{"role":"hr"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_MyPermissions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("role", RoleHR)
	c.Request = httptest.NewRequest(http.MethodGet, "/rbac/permissions/me", nil)

	NewHandler(&mockService{}).MyPermissions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var env response.ApiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)
	assert.Contains(t, w.Body.String(), `"role":"hr"`)
}
