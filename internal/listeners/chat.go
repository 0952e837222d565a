package listeners

import (
	"context"
	"fmt"

	"github.com/smallbiznis/taskora/internal/events"
	"github.com/smallbiznis/taskora/internal/notification/channel"
)

// chatListener posts a one-line summary to the tenant owner's configured
// Slack or Telegram destination. Both channels share the text formatter;
// the adapter decides the transport.
type chatListener struct {
	set     *Set
	name    string
	module  string
	adapter channel.Adapter
	format  func(evt events.Event) string
}

func (s *Set) slackListener(name, module string, format func(events.Event) string) *chatListener {
	return &chatListener{set: s, name: name, module: module, adapter: s.slack, format: format}
}

func (s *Set) telegramListener(name, module string, format func(events.Event) string) *chatListener {
	return &chatListener{set: s, name: name, module: module, adapter: s.telegram, format: format}
}

func (l *chatListener) Name() string { return l.name }

func (l *chatListener) Handle(ctx context.Context, evt events.Event) []channel.Result {
	ch := l.adapter.Channel()

	ownerID, ok := l.set.owner(ctx, evt)
	if !ok {
		return []channel.Result{channel.ResultSkipped(ch, "no resolvable owner")}
	}

	text := l.format(evt)
	if text == "" {
		return []channel.Result{channel.ResultSkipped(ch, "nothing to send")}
	}

	return []channel.Result{l.adapter.Send(ctx, channel.Message{
		Module:      l.module,
		OwnerID:     ownerID,
		UserID:      ownerID,
		WorkspaceID: evt.WorkspaceID,
		Text:        text,
	})}
}

func taskCreatedText(evt events.Event) string {
	p, ok := evt.Payload.(events.TaskCreatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("New task: %s (priority %s)", p.Task.Title, p.Task.Priority)
}

func taskAssignedText(evt events.Event) string {
	p, ok := evt.Payload.(events.TaskAssignedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Task assigned: %s (%d assignee(s))", p.Task.Title, len(p.Assignees))
}

func invoiceCreatedText(evt events.Event) string {
	p, ok := evt.Payload.(events.InvoiceCreatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("New invoice %s for %s", p.Invoice.Number, money(p.Invoice.Amount))
}

func invoiceStatusText(evt events.Event) string {
	p, ok := evt.Payload.(events.InvoiceStatusUpdatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Invoice %s: %s → %s", p.Invoice.Number, p.OldStatus, p.NewStatus)
}

func budgetCreatedText(evt events.Event) string {
	p, ok := evt.Payload.(events.BudgetCreatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("New budget %s: %s (%s)", p.Budget.Name, money(p.Budget.Amount), p.Budget.Period)
}

func projectCreatedText(evt events.Event) string {
	p, ok := evt.Payload.(events.ProjectCreatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("New project: %s", p.Project.Name)
}

func projectMemberText(evt events.Event) string {
	p, ok := evt.Payload.(events.ProjectMemberAssignedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s joined project %s", p.Member.Name, p.Project.Name)
}

func bugAssignedText(evt events.Event) string {
	p, ok := evt.Payload.(events.BugAssignedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Bug assigned: %s (severity %s)", p.Bug.Title, p.Bug.Severity)
}

func expenseCreatedText(evt events.Event) string {
	p, ok := evt.Payload.(events.ExpenseCreatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("New expense: %s (%s)", p.Expense.Description, money(p.Expense.Amount))
}

func expenseApprovalText(evt events.Event) string {
	p, ok := evt.Payload.(events.ExpenseApprovalRequestedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Expense awaiting approval: %s (%s)", p.Expense.Description, money(p.Expense.Amount))
}

func milestoneCreatedText(evt events.Event) string {
	p, ok := evt.Payload.(events.MilestoneCreatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("New milestone: %s", p.Milestone.Title)
}

func milestoneStatusText(evt events.Event) string {
	p, ok := evt.Payload.(events.MilestoneStatusUpdatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Milestone %s: %s → %s", p.Milestone.Title, p.OldStatus, p.NewStatus)
}

func taskStageText(evt events.Event) string {
	p, ok := evt.Payload.(events.TaskStageUpdatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Task %s moved: %s → %s", p.Task.Title, p.OldStage, p.NewStage)
}

func taskCommentText(evt events.Event) string {
	p, ok := evt.Payload.(events.TaskCommentAddedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("New comment on %s", p.Task.Title)
}

func userCreatedText(evt events.Event) string {
	p, ok := evt.Payload.(events.UserCreatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("New user: %s (%s)", p.User.Name, p.User.Email)
}

func workspaceInvitedText(evt events.Event) string {
	p, ok := evt.Payload.(events.WorkspaceInvitedPayload)
	if !ok || len(p.Invites) == 0 {
		return ""
	}
	return fmt.Sprintf("%d invitation(s) sent", len(p.Invites))
}

func contractCreatedText(evt events.Event) string {
	p, ok := evt.Payload.(events.ContractCreatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("New contract: %s (%s)", p.Contract.Subject, money(p.Contract.Value))
}

func meetingCreatedText(evt events.Event) string {
	p, ok := evt.Payload.(events.GoogleMeetingCreatedPayload)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Meeting scheduled: %s at %s", p.Meeting.Title, p.Meeting.StartsAt.Format("2006-01-02 15:04"))
}
