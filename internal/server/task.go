package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/taskora/internal/events"
	taskdomain "github.com/smallbiznis/taskora/internal/task/domain"
)

type createTaskRequest struct {
	ProjectID string     `json:"project_id"`
	Title     string     `json:"title"`
	Priority  string     `json:"priority"`
	DueDate   *time.Time `json:"due_date"`
}

func (s *Server) CreateTask(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var projectID snowflake.ID
	if raw := strings.TrimSpace(req.ProjectID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, newValidationError("project_id", "invalid_project_id", "invalid project id"))
			return
		}
		projectID = parsed
	}

	actorID := user.ID
	task, report, err := s.taskSvc.Create(c.Request.Context(), taskdomain.CreateInput{
		WorkspaceID: user.WorkspaceID,
		ProjectID:   projectID,
		Title:       strings.TrimSpace(req.Title),
		Priority:    strings.TrimSpace(req.Priority),
		DueDate:     req.DueDate,
		ActorID:     &actorID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, taskResponse(c, task, report))
}

type assignTaskRequest struct {
	AssigneeIDs []string `json:"assignee_ids"`
}

func (s *Server) AssignTask(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	taskID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req assignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	assigneeIDs := make([]snowflake.ID, 0, len(req.AssigneeIDs))
	for _, raw := range req.AssigneeIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil {
			AbortWithError(c, newValidationError("assignee_ids", "invalid_assignee_id", "invalid assignee id"))
			return
		}
		assigneeIDs = append(assigneeIDs, id)
	}

	actorID := user.ID
	task, report, err := s.taskSvc.Assign(c.Request.Context(), taskID, assigneeIDs, &actorID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, taskResponse(c, task, report))
}

type updateTaskStageRequest struct {
	Stage string `json:"stage"`
}

func (s *Server) UpdateTaskStage(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	taskID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	var req updateTaskStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	actorID := user.ID
	task, report, err := s.taskSvc.UpdateStage(c.Request.Context(), taskID, strings.TrimSpace(req.Stage), &actorID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, taskResponse(c, task, report))
}

func (s *Server) GetTask(c *gin.Context) {
	taskID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	task, err := s.taskSvc.Get(c.Request.Context(), taskID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": task})
}

func (s *Server) ListTasks(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	tasks, err := s.taskSvc.List(c.Request.Context(), user.WorkspaceID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": tasks})
}

// taskResponse surfaces the delivery report alongside the task: the first
// permanent email failure becomes email_error; other channels stay silent.
func taskResponse(c *gin.Context, task *taskdomain.Task, report *events.Report) gin.H {
	resp := gin.H{"data": task}
	if emailErr := report.EmailError(); emailErr != "" {
		resp["email_error"] = emailErr
	}
	if warnings := entitlementWarnings(c); len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	return resp
}
