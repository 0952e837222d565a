package server

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/taskora/internal/observability/context"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
)

const currentUserKey = "current_user"

// CurrentUser resolves the acting user from the X-User-ID header. Identity
// verification lives upstream at the gateway; this layer only loads the user
// record the gateway vouched for.
func (s *Server) CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		user, err := s.userSvc.GetUser(c.Request.Context(), snowflake.ID(id))
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(currentUserKey, user)

		ctx := obscontext.WithActorID(c.Request.Context(), user.ID.String())
		ctx = obscontext.WithWorkspaceID(ctx, user.WorkspaceID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func currentUser(c *gin.Context) *workspacedomain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*workspacedomain.User)
	return user
}

// flashURL appends the user-facing message as an error query parameter so
// the page a browser is redirected to can render it.
func flashURL(target, message string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("error", message)
	u.RawQuery = q.Encode()
	return u.String()
}
