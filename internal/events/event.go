package events

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Type identifies a completed domain action.
type Type string

const (
	TaskCreated              Type = "task.created"
	InvoiceCreated           Type = "invoice.created"
	InvoiceStatusUpdated     Type = "invoice.status_updated"
	BudgetCreated            Type = "budget.created"
	ProjectCreated           Type = "project.created"
	ProjectMemberAssigned    Type = "project.member_assigned"
	TaskAssigned             Type = "task.assigned"
	BugAssigned              Type = "bug.assigned"
	ExpenseCreated           Type = "expense.created"
	ExpenseApprovalRequested Type = "expense.approval_requested"
	MilestoneCreated         Type = "milestone.created"
	MilestoneStatusUpdated   Type = "milestone.status_updated"
	TaskStageUpdated         Type = "task.stage_updated"
	TaskCommentAdded         Type = "task.comment_added"
	UserCreated              Type = "user.created"
	WorkspaceInvited         Type = "workspace.invited"
	ContractCreated          Type = "contract.created"
	GoogleMeetingCreated     Type = "meeting.created"
)

// Types lists every event type in registration order.
var Types = []Type{
	TaskCreated,
	InvoiceCreated,
	InvoiceStatusUpdated,
	BudgetCreated,
	ProjectCreated,
	ProjectMemberAssigned,
	TaskAssigned,
	BugAssigned,
	ExpenseCreated,
	ExpenseApprovalRequested,
	MilestoneCreated,
	MilestoneStatusUpdated,
	TaskStageUpdated,
	TaskCommentAdded,
	UserCreated,
	WorkspaceInvited,
	ContractCreated,
	GoogleMeetingCreated,
}

// Event is an immutable record of a completed domain action. It is built
// after the action commits, consumed once per listener, and discarded; the
// bus never persists it.
type Event struct {
	ID          snowflake.ID
	Type        Type
	WorkspaceID snowflake.ID
	// ActorID is the user who triggered the action, absent for system actions.
	ActorID    *snowflake.ID
	OccurredAt time.Time
	Payload    any
}

// New builds an event for the given action.
func New(node *snowflake.Node, t Type, workspaceID snowflake.ID, actorID *snowflake.ID, payload any) Event {
	var id snowflake.ID
	if node != nil {
		id = node.Generate()
	}
	return Event{
		ID:          id,
		Type:        t,
		WorkspaceID: workspaceID,
		ActorID:     actorID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}
