package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	entitlementdomain "github.com/smallbiznis/taskora/internal/entitlement/domain"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEntitlement struct {
	eval entitlementdomain.Evaluation
}

func (s *stubEntitlement) Evaluate(ctx context.Context, user *workspacedomain.User) entitlementdomain.Evaluation {
	return s.eval
}

func newGateServer(eval entitlementdomain.Evaluation) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	s := &Server{engine: engine, entitlementSvc: &stubEntitlement{eval: eval}}

	api := engine.Group("/api")
	api.Use(ErrorHandlingMiddleware(), s.EntitlementGate())
	api.GET("/tasks", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"warnings": entitlementWarnings(c)})
	})
	api.POST("/tasks", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return engine
}

func TestEntitlementGateRejectsJSONWithRedirect(t *testing.T) {
	engine := newGateServer(entitlementdomain.Evaluation{
		Decision: entitlementdomain.Rejected,
		Redirect: entitlementdomain.RedirectPlans,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subscription_required"`)
	assert.Contains(t, rec.Body.String(), entitlementdomain.RedirectPlans)
}

func TestEntitlementGateRedirectsBrowserWithFlash(t *testing.T) {
	engine := newGateServer(entitlementdomain.Evaluation{Decision: entitlementdomain.Rejected})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, entitlementdomain.RedirectPlans, location.Path)
	assert.Equal(t, subscriptionRequiredMessage, location.Query().Get("error"))
}

func TestEntitlementGateDegradedReadOnly(t *testing.T) {
	engine := newGateServer(entitlementdomain.Evaluation{Decision: entitlementdomain.DegradedReadOnly})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tasks", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code, "writes are blocked while degraded")
	assert.Contains(t, rec.Body.String(), `"forbidden"`)
}

func TestEntitlementGatePassesWarningsThrough(t *testing.T) {
	engine := newGateServer(entitlementdomain.Evaluation{
		Decision: entitlementdomain.Allowed,
		Warnings: []string{"8 of 10 seats used"},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "8 of 10 seats used", rec.Header().Get("X-Quota-Warnings"))
	assert.Contains(t, rec.Body.String(), "8 of 10 seats used")
}
