package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	entitlementdomain "github.com/smallbiznis/taskora/internal/entitlement/domain"
)

const (
	entitlementWarningsKey      = "entitlement_warnings"
	subscriptionRequiredMessage = "An active subscription is required to continue."
)

// EntitlementGate enforces the acting user's plan. Superadmins and
// standalone deployments pass through inside Evaluate; the gate only
// translates the decision to HTTP.
func (s *Server) EntitlementGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		eval := s.entitlementSvc.Evaluate(c.Request.Context(), currentUser(c))

		switch eval.Decision {
		case entitlementdomain.Rejected:
			redirect := eval.Redirect
			if redirect == "" {
				redirect = entitlementdomain.RedirectPlans
			}
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
					"error":    "subscription_required",
					"redirect": redirect,
				})
			} else {
				c.Redirect(http.StatusFound, flashURL(redirect, subscriptionRequiredMessage))
				c.Abort()
			}
			return
		case entitlementdomain.DegradedReadOnly:
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				AbortWithError(c, ErrForbidden)
				return
			}
		}

		if len(eval.Warnings) > 0 {
			c.Set(entitlementWarningsKey, eval.Warnings)
			c.Header("X-Quota-Warnings", strings.Join(eval.Warnings, "; "))
		}

		c.Next()
	}
}

func entitlementWarnings(c *gin.Context) []string {
	v, ok := c.Get(entitlementWarningsKey)
	if !ok {
		return nil
	}
	warnings, _ := v.([]string)
	return warnings
}

func wantsJSON(c *gin.Context) bool {
	accept := c.GetHeader("Accept")
	if strings.Contains(accept, "application/json") || accept == "" || accept == "*/*" {
		return true
	}
	return strings.Contains(c.GetHeader("Content-Type"), "application/json")
}
