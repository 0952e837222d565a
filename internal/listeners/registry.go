package listeners

import (
	"github.com/smallbiznis/taskora/internal/events"
	"github.com/smallbiznis/taskora/internal/notification/domain"
	"go.uber.org/fx"
)

// Registration binds one event type to its ordered listener slice.
type Registration struct {
	Type      events.Type
	Listeners []events.Listener
}

// Registrations is the full explicit wiring table: one row per event type,
// email first, then slack, telegram, webhook. Order is delivery order.
func (s *Set) Registrations() []Registration {
	row := func(t events.Type, prefix, module, label string, jobs jobsFunc, text func(events.Event) string) Registration {
		return Registration{Type: t, Listeners: []events.Listener{
			s.emailListener(prefix+".email", module, label, jobs),
			s.slackListener(prefix+".slack", module, text),
			s.telegramListener(prefix+".telegram", module, text),
			s.webhookListener(prefix+".webhook", module),
		}}
	}

	return []Registration{
		row(events.TaskCreated, "task_created", domain.ModuleNewTask, "new task", taskCreatedJobs, taskCreatedText),
		row(events.InvoiceCreated, "invoice_created", domain.ModuleNewInvoice, "new invoice", invoiceCreatedJobs, invoiceCreatedText),
		row(events.InvoiceStatusUpdated, "invoice_status_updated", domain.ModuleInvoiceStatus, "invoice status", invoiceStatusJobs, invoiceStatusText),
		row(events.BudgetCreated, "budget_created", domain.ModuleNewBudget, "new budget", budgetCreatedJobs, budgetCreatedText),
		row(events.ProjectCreated, "project_created", domain.ModuleNewProject, "new project", projectCreatedJobs, projectCreatedText),
		row(events.ProjectMemberAssigned, "project_member_assigned", domain.ModuleProjectAssignment, "project assignment", projectMemberJobs, projectMemberText),
		row(events.TaskAssigned, "task_assigned", domain.ModuleTaskAssignment, "task assignment", taskAssignedJobs, taskAssignedText),
		row(events.BugAssigned, "bug_assigned", domain.ModuleBugAssignment, "bug assignment", bugAssignedJobs, bugAssignedText),
		row(events.ExpenseCreated, "expense_created", domain.ModuleNewExpense, "new expense", expenseCreatedJobs, expenseCreatedText),
		row(events.ExpenseApprovalRequested, "expense_approval_requested", domain.ModuleExpenseApproval, "expense approval", expenseApprovalJobs, expenseApprovalText),
		row(events.MilestoneCreated, "milestone_created", domain.ModuleNewMilestone, "new milestone", milestoneCreatedJobs, milestoneCreatedText),
		row(events.MilestoneStatusUpdated, "milestone_status_updated", domain.ModuleMilestoneStatus, "milestone status", milestoneStatusJobs, milestoneStatusText),
		row(events.TaskStageUpdated, "task_stage_updated", domain.ModuleTaskStage, "task stage", taskStageJobs, taskStageText),
		row(events.TaskCommentAdded, "task_comment_added", domain.ModuleNewTaskComment, "task comment", taskCommentJobs, taskCommentText),
		row(events.UserCreated, "user_created", domain.ModuleNewUser, "welcome", userCreatedJobs, userCreatedText),
		row(events.WorkspaceInvited, "workspace_invited", domain.ModuleInvitation, "invitation", workspaceInvitedJobs, workspaceInvitedText),
		row(events.ContractCreated, "contract_created", domain.ModuleNewContract, "new contract", contractCreatedJobs, contractCreatedText),
		row(events.GoogleMeetingCreated, "meeting_created", domain.ModuleNewMeeting, "new meeting", meetingCreatedJobs, meetingCreatedText),
	}
}

// Register subscribes the whole table on the bus at startup.
func Register(bus *events.Bus, s *Set) {
	for _, r := range s.Registrations() {
		bus.Subscribe(r.Type, r.Listeners...)
	}
}

var Module = fx.Module("listeners",
	fx.Provide(
		NewWelcomeGuard,
		NewSet,
	),
	fx.Invoke(Register),
)
