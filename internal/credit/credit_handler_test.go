package credit_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hris-payroll/internal/approval"
	"hris-payroll/internal/credit"
	crediterrors "hris-payroll/internal/credit/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

type fakeCreditService struct {
	credit.Service
	balanceFn func(ctx context.Context, companyID, employeeID, kind string, year int) (credit.CreditResponse, error)
}

func (f *fakeCreditService) Balance(ctx context.Context, companyID, employeeID, kind string, year int) (credit.CreditResponse, error) {
	return f.balanceFn(ctx, companyID, employeeID, kind, year)
}

func (f *fakeCreditService) Apply(context.Context, *sql.Tx, credit.Key, approval.CreditEffect, decimal.Decimal) (credit.CreditResponse, error) {
	return credit.CreditResponse{}, nil
}

func newBalanceContext(employeeID, query, role, self string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/credits/"+employeeID+query, nil)
	c.Params = gin.Params{{Key: "employee_id", Value: employeeID}}
	c.Set("company_id", uuid.New().String())
	c.Set("role", role)
	c.Set("employee_id", self)
	return c, w
}

func TestHandler_GetBalance(t *testing.T) {
	employeeID := uuid.New().String()

	t.Run("hr reads any employee", func(t *testing.T) {
		svc := &fakeCreditService{
			balanceFn: func(ctx context.Context, companyID, eid, kind string, year int) (credit.CreditResponse, error) {
				assert.Equal(t, employeeID, eid)
				assert.Equal(t, "absence", kind)
				assert.Equal(t, 2026, year)
				return credit.CreditResponse{EmployeeID: eid, Kind: kind, Year: year, RemainingCredits: "10.50"}, nil
			},
		}
		c, w := newBalanceContext(employeeID, "?kind=absence&year=2026", "hr", uuid.New().String())

		credit.NewHandler(svc).GetBalance(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var env apiEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		var got credit.CreditResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "10.50", got.RemainingCredits)
	})

	t.Run("employee defaults to leave for self", func(t *testing.T) {
		svc := &fakeCreditService{
			balanceFn: func(ctx context.Context, companyID, eid, kind string, year int) (credit.CreditResponse, error) {
				assert.Equal(t, "leave", kind)
				assert.Equal(t, 0, year)
				return credit.CreditResponse{}, nil
			},
		}
		c, w := newBalanceContext(employeeID, "", "employee", employeeID)

		credit.NewHandler(svc).GetBalance(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("employee cannot read others", func(t *testing.T) {
		c, w := newBalanceContext(employeeID, "", "employee", uuid.New().String())

		credit.NewHandler(&fakeCreditService{}).GetBalance(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		var env apiEnvelope
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.Equal(t, crediterrors.ErrForeignEmployee.Code, env.Error.Code)
	})

	t.Run("bad year", func(t *testing.T) {
		c, w := newBalanceContext(employeeID, "?year=abc", "admin", "")
		credit.NewHandler(&fakeCreditService{}).GetBalance(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
