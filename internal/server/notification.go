package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/taskora/internal/notification/channel"
	notificationdomain "github.com/smallbiznis/taskora/internal/notification/domain"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
)

// templateOwnerID resolves whose template set the request operates on.
// Owners and superadmins manage their own; members manage their
// workspace owner's.
func (s *Server) templateOwnerID(c *gin.Context, user *workspacedomain.User) snowflake.ID {
	if user.IsSuperAdmin() || user.IsCompanyOwner() {
		return user.ID
	}
	ws, err := s.userSvc.GetWorkspace(c.Request.Context(), user.WorkspaceID)
	if err != nil {
		return user.ID
	}
	return ws.OwnerID
}

func (s *Server) ListTemplates(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	templates, err := s.notificationSvc.ListTemplates(c.Request.Context(), s.templateOwnerID(c, user))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": templates})
}

type toggleTemplateRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) ToggleTemplate(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req toggleTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	name := strings.TrimSpace(c.Param("name"))
	if err := s.notificationSvc.SetTemplateEnabled(c.Request.Context(), s.templateOwnerID(c, user), name, req.Enabled); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"name": name, "enabled": req.Enabled}})
}

type setPreferenceRequest struct {
	Module  string `json:"module"`
	Channel string `json:"channel"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) SetPreference(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req setPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	pref := notificationdomain.NotificationPreference{
		WorkspaceID: user.WorkspaceID,
		UserID:      user.ID,
		Module:      strings.TrimSpace(req.Module),
		Channel:     channel.Channel(strings.TrimSpace(req.Channel)),
		Enabled:     req.Enabled,
	}
	if err := s.notificationSvc.SetPreference(c.Request.Context(), pref); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": pref})
}

type setChannelTargetRequest struct {
	Channel     string `json:"channel"`
	Destination string `json:"destination"`
	Token       string `json:"token"`
}

func (s *Server) SetChannelTarget(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req setChannelTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	target := notificationdomain.ChannelTarget{
		WorkspaceID: user.WorkspaceID,
		UserID:      user.ID,
		Channel:     channel.Channel(strings.TrimSpace(req.Channel)),
		Destination: strings.TrimSpace(req.Destination),
		Token:       strings.TrimSpace(req.Token),
	}
	if err := s.notificationSvc.SetChannelTarget(c.Request.Context(), target); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": target})
}

type registerWebhookRequest struct {
	Module string `json:"module"`
	URL    string `json:"url"`
	Secret string `json:"secret"`
}

func (s *Server) RegisterWebhook(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req registerWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	hook, err := s.notificationSvc.RegisterWebhook(c.Request.Context(), notificationdomain.WebhookEndpoint{
		WorkspaceID: user.WorkspaceID,
		UserID:      user.ID,
		Module:      strings.TrimSpace(req.Module),
		URL:         strings.TrimSpace(req.URL),
		Secret:      strings.TrimSpace(req.Secret),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hook})
}

func (s *Server) ListWebhooks(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	hooks, err := s.notificationSvc.ListWebhooks(c.Request.Context(), user.WorkspaceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": hooks})
}

func (s *Server) RemoveWebhook(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	if err := s.notificationSvc.RemoveWebhook(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "deleted": true}})
}
