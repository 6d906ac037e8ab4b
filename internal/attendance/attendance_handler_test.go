package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hris-payroll/internal/attendance"
	attendanceerrors "hris-payroll/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	attendance.Service
	clockInFn func(ctx context.Context, companyID, employeeID string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error)
	recordFn  func(ctx context.Context, companyID string, req attendance.RecordAttendanceRequest) (attendance.AttendanceResponse, error)
	getAllFn  func(ctx context.Context, companyID, actorID string, canReadAll bool) ([]attendance.AttendanceResponse, error)
}

func (f *fakeService) ClockIn(ctx context.Context, companyID, employeeID string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	return f.clockInFn(ctx, companyID, employeeID, req)
}

func (f *fakeService) Record(ctx context.Context, companyID string, req attendance.RecordAttendanceRequest) (attendance.AttendanceResponse, error) {
	return f.recordFn(ctx, companyID, req)
}

func (f *fakeService) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]attendance.AttendanceResponse, error) {
	return f.getAllFn(ctx, companyID, actorID, canReadAll)
}

type envelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newRouter(h *attendance.Handler, companyID, employeeID string, readAll bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("company_id", companyID)
		c.Set("employee_id", employeeID)
		c.Set("has_read_all", readAll)
		c.Next()
	})
	r.POST("/attendances/clock-in", h.ClockIn)
	r.PUT("/attendances/records", h.Record)
	r.GET("/attendances", h.GetAll)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestHandler_ClockIn(t *testing.T) {
	companyID := uuid.NewString()
	employeeID := uuid.NewString()

	svc := &fakeService{
		clockInFn: func(ctx context.Context, cid, eid string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, employeeID, eid)
			return attendance.AttendanceResponse{ID: uuid.NewString(), Status: attendance.StatusLate}, nil
		},
	}
	r := newRouter(attendance.NewHandler(svc), companyID, employeeID, false)

	w, env := doJSON(t, r, http.MethodPost, "/attendances/clock-in", `{"latitude": 14.55}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Ok)

	svc.clockInFn = func(ctx context.Context, cid, eid string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
		return attendance.AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}
	w, env = doJSON(t, r, http.MethodPost, "/attendances/clock-in", `{}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestHandler_Record(t *testing.T) {
	svc := &fakeService{
		recordFn: func(ctx context.Context, cid string, req attendance.RecordAttendanceRequest) (attendance.AttendanceResponse, error) {
			return attendance.AttendanceResponse{EmployeeID: req.EmployeeID, Status: req.Status}, nil
		},
	}
	r := newRouter(attendance.NewHandler(svc), uuid.NewString(), uuid.NewString(), true)

	body := `{"employee_id":"` + uuid.NewString() + `","attendance_date":"2026-03-02","status":"Absent"}`
	w, env := doJSON(t, r, http.MethodPut, "/attendances/records", body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Ok)

	w, env = doJSON(t, r, http.MethodPut, "/attendances/records", `{"employee_id":"x","attendance_date":"2026-03-02","status":"Gone"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestHandler_GetAllPaginatesAndPassesReadAll(t *testing.T) {
	var gotReadAll bool
	svc := &fakeService{
		getAllFn: func(ctx context.Context, cid, actorID string, canReadAll bool) ([]attendance.AttendanceResponse, error) {
			gotReadAll = canReadAll
			items := make([]attendance.AttendanceResponse, 3)
			for i := range items {
				items[i] = attendance.AttendanceResponse{ID: uuid.NewString(), AttendanceDate: time.Now().Format("2006-01-02")}
			}
			return items, nil
		},
	}
	r := newRouter(attendance.NewHandler(svc), uuid.NewString(), uuid.NewString(), true)

	w, env := doJSON(t, r, http.MethodGet, "/attendances?page=2&page_size=2", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gotReadAll)

	var items []attendance.AttendanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &items))
	assert.Len(t, items, 1)
}
