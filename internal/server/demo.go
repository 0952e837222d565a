package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	demoSpamMessage     = "Sending email is disabled on the demo instance to prevent spam."
	demoReadOnlyMessage = "Demo data is read-only. This action is disabled on the demo instance."
)

// DemoGuard blocks destructive writes on demo deployments. GET always
// passes; PUT, PATCH and DELETE are always blocked; POST is blocked only
// when it hits a restricted pattern and the route is not allow-listed.
// The allow-list wins over every pattern match.
func (s *Server) DemoGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.cfg.DemoMode {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		case http.MethodPut, http.MethodPatch, http.MethodDelete:
			s.blockDemo(c)
			return
		}

		policy := s.demoPolicy.Get()
		path := c.Request.URL.Path
		route := s.routeName(c)

		if policy.AllowsRoute(route) {
			c.Next()
			return
		}
		if policy.MatchesRestricted(path, route) {
			s.blockDemo(c)
			return
		}

		c.Next()
	}
}

func (s *Server) blockDemo(c *gin.Context) {
	policy := s.demoPolicy.Get()
	message := demoReadOnlyMessage
	if policy.MentionsEmail(c.Request.URL.Path, s.routeName(c)) {
		message = demoSpamMessage
	}

	if wantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"message":   message,
			"demo_mode": true,
		})
		return
	}

	back := c.Request.Referer()
	if back == "" {
		back = "/"
	}
	c.Redirect(http.StatusFound, flashURL(back, message))
	c.Abort()
}
