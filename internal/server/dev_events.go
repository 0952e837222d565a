package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/taskora/internal/events"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
)

type publishTestEventRequest struct {
	Type string `json:"type"`
}

// PublishTestEvent publishes a synthetic event of the requested type so the
// full fan-out, preferences included, can be exercised against a dev
// deployment. Not registered in production.
func (s *Server) PublishTestEvent(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req publishTestEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	eventType := events.Type(strings.TrimSpace(req.Type))
	payload, ok := s.testPayload(eventType, user)
	if !ok {
		AbortWithError(c, newValidationError("type", "invalid_type", "invalid event type"))
		return
	}

	actorID := user.ID
	evt := events.New(s.genID, eventType, user.WorkspaceID, &actorID, payload)
	report := s.bus.Publish(c.Request.Context(), evt)

	attempts := make([]gin.H, 0, len(report.Attempts))
	for _, a := range report.Attempts {
		entry := gin.H{
			"listener": a.Listener,
			"channel":  a.Channel,
			"outcome":  a.Outcome,
		}
		if a.Detail != "" {
			entry["detail"] = a.Detail
		}
		attempts = append(attempts, entry)
	}

	resp := gin.H{"data": gin.H{
		"event_id": evt.ID,
		"type":     evt.Type,
		"attempts": attempts,
	}}
	if emailErr := report.EmailError(); emailErr != "" {
		resp["email_error"] = emailErr
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) testPayload(t events.Type, user *workspacedomain.User) (any, bool) {
	actorID := user.ID
	now := time.Now().UTC()
	self := events.UserInfo{
		ID:          user.ID,
		WorkspaceID: user.WorkspaceID,
		Email:       user.Email,
		Name:        user.Name,
		Lang:        user.Lang,
		UpdatedAt:   user.UpdatedAt,
	}
	task := events.Task{
		ID:          s.genID.Generate(),
		WorkspaceID: user.WorkspaceID,
		Title:       "Test task",
		Stage:       "incomplete",
		Priority:    "medium",
		CreatedBy:   &actorID,
	}
	project := events.Project{
		ID:          s.genID.Generate(),
		WorkspaceID: user.WorkspaceID,
		Name:        "Test project",
		Budget:      1000,
		CreatedBy:   &actorID,
	}
	invoice := events.Invoice{
		ID:          s.genID.Generate(),
		WorkspaceID: user.WorkspaceID,
		Number:      "INV-0001",
		Amount:      100,
		Status:      "draft",
		CreatedBy:   &actorID,
	}
	expense := events.Expense{
		ID:          s.genID.Generate(),
		WorkspaceID: user.WorkspaceID,
		Description: "Test expense",
		Amount:      42,
		CreatedBy:   &actorID,
	}
	milestone := events.Milestone{
		ID:        s.genID.Generate(),
		Title:     "Test milestone",
		Status:    "open",
		Cost:      500,
		CreatedBy: &actorID,
	}

	switch t {
	case events.TaskCreated:
		return events.TaskCreatedPayload{Task: task}, true
	case events.TaskAssigned:
		return events.TaskAssignedPayload{Task: task, Assignees: []events.UserInfo{self}, AssignedBy: &actorID}, true
	case events.TaskStageUpdated:
		return events.TaskStageUpdatedPayload{Task: task, OldStage: "incomplete", NewStage: "doing"}, true
	case events.TaskCommentAdded:
		return events.TaskCommentAddedPayload{Task: task, Comment: events.Comment{
			ID:       s.genID.Generate(),
			TaskID:   task.ID,
			Body:     "Test comment",
			AuthorID: &actorID,
		}}, true
	case events.InvoiceCreated:
		return events.InvoiceCreatedPayload{Invoice: invoice}, true
	case events.InvoiceStatusUpdated:
		return events.InvoiceStatusUpdatedPayload{Invoice: invoice, OldStatus: "draft", NewStatus: "sent"}, true
	case events.BudgetCreated:
		return events.BudgetCreatedPayload{Budget: events.Budget{
			ID:          s.genID.Generate(),
			WorkspaceID: user.WorkspaceID,
			Name:        "Test budget",
			Amount:      2500,
			Period:      "monthly",
			CreatedBy:   &actorID,
		}}, true
	case events.ProjectCreated:
		return events.ProjectCreatedPayload{Project: project}, true
	case events.ProjectMemberAssigned:
		return events.ProjectMemberAssignedPayload{Project: project, Member: self}, true
	case events.BugAssigned:
		return events.BugAssignedPayload{Bug: events.Bug{
			ID:          s.genID.Generate(),
			WorkspaceID: user.WorkspaceID,
			Title:       "Test bug",
			Severity:    "low",
			CreatedBy:   &actorID,
		}, Assignees: []events.UserInfo{self}}, true
	case events.ExpenseCreated:
		return events.ExpenseCreatedPayload{Expense: expense, Clients: []events.UserInfo{self}}, true
	case events.ExpenseApprovalRequested:
		return events.ExpenseApprovalRequestedPayload{Expense: expense, Approver: self}, true
	case events.MilestoneCreated:
		return events.MilestoneCreatedPayload{Milestone: milestone}, true
	case events.MilestoneStatusUpdated:
		return events.MilestoneStatusUpdatedPayload{Milestone: milestone, OldStatus: "open", NewStatus: "completed"}, true
	case events.UserCreated:
		return events.UserCreatedPayload{User: self, PlainPassword: "test-password"}, true
	case events.WorkspaceInvited:
		return events.WorkspaceInvitedPayload{Invites: []events.Invite{{
			Email:         user.Email,
			WorkspaceID:   user.WorkspaceID,
			WorkspaceName: "Test workspace",
			Code:          "TEST-CODE",
		}}}, true
	case events.ContractCreated:
		return events.ContractCreatedPayload{Contract: events.Contract{
			ID:          s.genID.Generate(),
			WorkspaceID: user.WorkspaceID,
			Subject:     "Test contract",
			Value:       9000,
			CreatedBy:   &actorID,
		}}, true
	case events.GoogleMeetingCreated:
		return events.GoogleMeetingCreatedPayload{Meeting: events.Meeting{
			ID:          s.genID.Generate(),
			WorkspaceID: user.WorkspaceID,
			Title:       "Test meeting",
			StartsAt:    now.Add(time.Hour),
			JoinURL:     "https://meet.example.com/test",
			CreatedBy:   &actorID,
			MemberIDs:   []snowflake.ID{user.ID},
		}, Members: []events.UserInfo{self}}, true
	default:
		return nil, false
	}
}
