package events

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Entity snapshots carried by event payloads. Full persistence of these
// records belongs to their own domains; listeners only read the snapshot
// the publishing action took after commit.

type Task struct {
	ID          snowflake.ID   `json:"id"`
	WorkspaceID snowflake.ID   `json:"workspace_id"`
	ProjectID   snowflake.ID   `json:"project_id"`
	Title       string         `json:"title"`
	Stage       string         `json:"stage"`
	Priority    string         `json:"priority"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	CreatedBy   *snowflake.ID  `json:"created_by,omitempty"`
	AssigneeIDs []snowflake.ID `json:"assignee_ids,omitempty"`
}

type Project struct {
	ID          snowflake.ID  `json:"id"`
	WorkspaceID snowflake.ID  `json:"workspace_id"`
	Name        string        `json:"name"`
	Budget      float64       `json:"budget"`
	CreatedBy   *snowflake.ID `json:"created_by,omitempty"`
	ClientIDs   []snowflake.ID `json:"client_ids,omitempty"`
	MemberIDs   []snowflake.ID `json:"member_ids,omitempty"`
}

type Invoice struct {
	ID          snowflake.ID  `json:"id"`
	WorkspaceID snowflake.ID  `json:"workspace_id"`
	ProjectID   snowflake.ID  `json:"project_id"`
	Number      string        `json:"number"`
	Amount      float64       `json:"amount"`
	Status      string        `json:"status"`
	CreatedBy   *snowflake.ID `json:"created_by,omitempty"`
}

type Budget struct {
	ID          snowflake.ID  `json:"id"`
	WorkspaceID snowflake.ID  `json:"workspace_id"`
	ProjectID   snowflake.ID  `json:"project_id"`
	Name        string        `json:"name"`
	Amount      float64       `json:"amount"`
	Period      string        `json:"period"`
	CreatedBy   *snowflake.ID `json:"created_by,omitempty"`
}

type Expense struct {
	ID          snowflake.ID  `json:"id"`
	WorkspaceID snowflake.ID  `json:"workspace_id"`
	ProjectID   snowflake.ID  `json:"project_id"`
	Description string        `json:"description"`
	Amount      float64       `json:"amount"`
	CreatedBy   *snowflake.ID `json:"created_by,omitempty"`
}

type Milestone struct {
	ID        snowflake.ID  `json:"id"`
	ProjectID snowflake.ID  `json:"project_id"`
	Title     string        `json:"title"`
	Status    string        `json:"status"`
	Cost      float64       `json:"cost"`
	CreatedBy *snowflake.ID `json:"created_by,omitempty"`
}

type Bug struct {
	ID          snowflake.ID   `json:"id"`
	WorkspaceID snowflake.ID   `json:"workspace_id"`
	ProjectID   snowflake.ID   `json:"project_id"`
	Title       string         `json:"title"`
	Severity    string         `json:"severity"`
	CreatedBy   *snowflake.ID  `json:"created_by,omitempty"`
	AssigneeIDs []snowflake.ID `json:"assignee_ids,omitempty"`
}

type Comment struct {
	ID       snowflake.ID  `json:"id"`
	TaskID   snowflake.ID  `json:"task_id"`
	Body     string        `json:"body"`
	AuthorID *snowflake.ID `json:"author_id,omitempty"`
}

type Contract struct {
	ID          snowflake.ID  `json:"id"`
	WorkspaceID snowflake.ID  `json:"workspace_id"`
	Subject     string        `json:"subject"`
	Value       float64       `json:"value"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	CreatedBy   *snowflake.ID `json:"created_by,omitempty"`
}

type Meeting struct {
	ID          snowflake.ID   `json:"id"`
	WorkspaceID snowflake.ID   `json:"workspace_id"`
	Title       string         `json:"title"`
	StartsAt    time.Time      `json:"starts_at"`
	JoinURL     string         `json:"join_url"`
	CreatedBy   *snowflake.ID  `json:"created_by,omitempty"`
	MemberIDs   []snowflake.ID `json:"member_ids,omitempty"`
}

type UserInfo struct {
	ID          snowflake.ID  `json:"id"`
	WorkspaceID snowflake.ID  `json:"workspace_id"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	Lang        string        `json:"lang"`
	UpdatedAt   time.Time     `json:"updated_at"`
	CreatedBy   *snowflake.ID `json:"created_by,omitempty"`
}

type Invite struct {
	Email         string       `json:"email"`
	WorkspaceID   snowflake.ID `json:"workspace_id"`
	WorkspaceName string       `json:"workspace_name"`
	Code          string       `json:"code"`
}

// Per-event payloads. Delta fields ride alongside the snapshot.

type TaskCreatedPayload struct {
	Task Task `json:"task"`
}

type TaskAssignedPayload struct {
	Task      Task           `json:"task"`
	Assignees []UserInfo     `json:"assignees"`
	AssignedBy *snowflake.ID `json:"assigned_by,omitempty"`
}

type InvoiceCreatedPayload struct {
	Invoice Invoice `json:"invoice"`
}

type InvoiceStatusUpdatedPayload struct {
	Invoice   Invoice `json:"invoice"`
	OldStatus string  `json:"old_status"`
	NewStatus string  `json:"new_status"`
}

type BudgetCreatedPayload struct {
	Budget Budget `json:"budget"`
}

type ProjectCreatedPayload struct {
	Project Project `json:"project"`
}

type ProjectMemberAssignedPayload struct {
	Project Project  `json:"project"`
	Member  UserInfo `json:"member"`
}

type BugAssignedPayload struct {
	Bug       Bug        `json:"bug"`
	Assignees []UserInfo `json:"assignees"`
}

type ExpenseCreatedPayload struct {
	Expense Expense `json:"expense"`
	// Clients receive the expense notification, one attempt each.
	Clients []UserInfo `json:"clients"`
}

type ExpenseApprovalRequestedPayload struct {
	Expense  Expense  `json:"expense"`
	Approver UserInfo `json:"approver"`
}

type MilestoneCreatedPayload struct {
	Milestone Milestone `json:"milestone"`
}

type MilestoneStatusUpdatedPayload struct {
	Milestone Milestone `json:"milestone"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
}

type TaskStageUpdatedPayload struct {
	Task     Task   `json:"task"`
	OldStage string `json:"old_stage"`
	NewStage string `json:"new_stage"`
}

type TaskCommentAddedPayload struct {
	Task    Task    `json:"task"`
	Comment Comment `json:"comment"`
}

type UserCreatedPayload struct {
	User UserInfo `json:"user"`
	// PlainPassword rides along for the welcome email only; never persisted.
	PlainPassword string `json:"-"`
}

type WorkspaceInvitedPayload struct {
	Invites []Invite `json:"invites"`
}

type ContractCreatedPayload struct {
	Contract Contract `json:"contract"`
}

type GoogleMeetingCreatedPayload struct {
	Meeting Meeting `json:"meeting"`
	// Members receive the meeting notification, one attempt each.
	Members []UserInfo `json:"members"`
}
