package listeners

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/events"
	"github.com/smallbiznis/taskora/internal/notification/channel"
)

// emailJob is one rendered-and-addressed send. Multi-recipient events
// produce one job per recipient so a bad address cannot poison the rest.
type emailJob struct {
	userID     snowflake.ID
	recipients []string
	lang       string
	vars       map[string]string
}

type jobsFunc func(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob

// emailListener resolves the tenant owner, builds the recipient jobs for
// its event and pushes each through the email adapter.
type emailListener struct {
	set    *Set
	name   string
	module string
	label  string
	jobs   jobsFunc
}

func (s *Set) emailListener(name, module, label string, jobs jobsFunc) *emailListener {
	return &emailListener{set: s, name: name, module: module, label: label, jobs: jobs}
}

func (l *emailListener) Name() string { return l.name }

func (l *emailListener) Handle(ctx context.Context, evt events.Event) []channel.Result {
	ownerID, ok := l.set.owner(ctx, evt)
	if !ok {
		return []channel.Result{channel.ResultSkipped(channel.Email, "no resolvable owner")}
	}

	jobs := l.jobs(ctx, l.set, evt, ownerID)
	if len(jobs) == 0 {
		return []channel.Result{channel.ResultSkipped(channel.Email, "no recipient")}
	}

	results := make([]channel.Result, 0, len(jobs))
	for _, job := range jobs {
		results = append(results, l.set.email.Send(ctx, channel.Message{
			Module:      l.module,
			Template:    l.module,
			Label:       l.label,
			OwnerID:     ownerID,
			UserID:      job.userID,
			WorkspaceID: evt.WorkspaceID,
			Lang:        job.lang,
			Vars:        job.vars,
			Recipients:  job.recipients,
		}))
	}
	return results
}

func taskCreatedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.TaskCreatedPayload)
	if !ok {
		return nil
	}
	return s.ownerJob(ctx, ownerID, map[string]string{
		"title":    p.Task.Title,
		"stage":    p.Task.Stage,
		"priority": p.Task.Priority,
		"due_date": dateStr(p.Task.DueDate),
	})
}

func taskAssignedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.TaskAssignedPayload)
	if !ok {
		return nil
	}
	jobs := make([]emailJob, 0, len(p.Assignees))
	for _, assignee := range p.Assignees {
		if assignee.Email == "" {
			continue
		}
		jobs = append(jobs, emailJob{
			userID:     assignee.ID,
			recipients: []string{assignee.Email},
			lang:       assignee.Lang,
			vars: map[string]string{
				"title":    p.Task.Title,
				"assignee": assignee.Name,
				"priority": p.Task.Priority,
				"due_date": dateStr(p.Task.DueDate),
			},
		})
	}
	return jobs
}

func invoiceCreatedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.InvoiceCreatedPayload)
	if !ok {
		return nil
	}
	return s.ownerJob(ctx, ownerID, map[string]string{
		"number": p.Invoice.Number,
		"amount": money(p.Invoice.Amount),
		"status": p.Invoice.Status,
	})
}

func invoiceStatusJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.InvoiceStatusUpdatedPayload)
	if !ok {
		return nil
	}
	return s.ownerJob(ctx, ownerID, map[string]string{
		"number":     p.Invoice.Number,
		"amount":     money(p.Invoice.Amount),
		"old_status": p.OldStatus,
		"new_status": p.NewStatus,
	})
}

func budgetCreatedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.BudgetCreatedPayload)
	if !ok {
		return nil
	}
	return s.ownerJob(ctx, ownerID, map[string]string{
		"name":   p.Budget.Name,
		"amount": money(p.Budget.Amount),
		"period": p.Budget.Period,
	})
}

func projectCreatedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.ProjectCreatedPayload)
	if !ok {
		return nil
	}
	return s.ownerJob(ctx, ownerID, map[string]string{
		"name":   p.Project.Name,
		"budget": money(p.Project.Budget),
	})
}

func projectMemberJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.ProjectMemberAssignedPayload)
	if !ok || p.Member.Email == "" {
		return nil
	}
	return []emailJob{{
		userID:     p.Member.ID,
		recipients: []string{p.Member.Email},
		lang:       p.Member.Lang,
		vars: map[string]string{
			"project": p.Project.Name,
			"member":  p.Member.Name,
		},
	}}
}

func bugAssignedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.BugAssignedPayload)
	if !ok {
		return nil
	}
	jobs := make([]emailJob, 0, len(p.Assignees))
	for _, assignee := range p.Assignees {
		if assignee.Email == "" {
			continue
		}
		jobs = append(jobs, emailJob{
			userID:     assignee.ID,
			recipients: []string{assignee.Email},
			lang:       assignee.Lang,
			vars: map[string]string{
				"title":    p.Bug.Title,
				"severity": p.Bug.Severity,
				"assignee": assignee.Name,
			},
		})
	}
	return jobs
}

func expenseCreatedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.ExpenseCreatedPayload)
	if !ok {
		return nil
	}
	jobs := make([]emailJob, 0, len(p.Clients))
	for _, client := range p.Clients {
		if client.Email == "" {
			continue
		}
		jobs = append(jobs, emailJob{
			userID:     client.ID,
			recipients: []string{client.Email},
			lang:       client.Lang,
			vars: map[string]string{
				"description": p.Expense.Description,
				"amount":      money(p.Expense.Amount),
			},
		})
	}
	return jobs
}

func expenseApprovalJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.ExpenseApprovalRequestedPayload)
	if !ok || p.Approver.Email == "" {
		return nil
	}
	return []emailJob{{
		userID:     p.Approver.ID,
		recipients: []string{p.Approver.Email},
		lang:       p.Approver.Lang,
		vars: map[string]string{
			"description": p.Expense.Description,
			"amount":      money(p.Expense.Amount),
			"approver":    p.Approver.Name,
		},
	}}
}

func milestoneCreatedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.MilestoneCreatedPayload)
	if !ok {
		return nil
	}
	return s.ownerJob(ctx, ownerID, map[string]string{
		"title": p.Milestone.Title,
		"cost":  money(p.Milestone.Cost),
	})
}

func milestoneStatusJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.MilestoneStatusUpdatedPayload)
	if !ok {
		return nil
	}
	return s.ownerJob(ctx, ownerID, map[string]string{
		"title":      p.Milestone.Title,
		"old_status": p.OldStatus,
		"new_status": p.NewStatus,
	})
}

func taskStageJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.TaskStageUpdatedPayload)
	if !ok {
		return nil
	}
	return s.ownerJob(ctx, ownerID, map[string]string{
		"title":     p.Task.Title,
		"old_stage": p.OldStage,
		"new_stage": p.NewStage,
	})
}

func taskCommentJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.TaskCommentAddedPayload)
	if !ok {
		return nil
	}
	return s.ownerJob(ctx, ownerID, map[string]string{
		"title":   p.Task.Title,
		"comment": p.Comment.Body,
	})
}

// userCreatedJobs sends the welcome email once per (user, revision); replays
// of the same record are dropped by the guard.
func userCreatedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.UserCreatedPayload)
	if !ok || p.User.Email == "" {
		return nil
	}
	if !s.welcome.ShouldSend(p.User) {
		return nil
	}
	return []emailJob{{
		userID:     p.User.ID,
		recipients: []string{p.User.Email},
		lang:       p.User.Lang,
		vars: map[string]string{
			"name":     p.User.Name,
			"email":    p.User.Email,
			"password": p.PlainPassword,
		},
	}}
}

func workspaceInvitedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.WorkspaceInvitedPayload)
	if !ok {
		return nil
	}
	jobs := make([]emailJob, 0, len(p.Invites))
	for _, invite := range p.Invites {
		if invite.Email == "" {
			continue
		}
		jobs = append(jobs, emailJob{
			userID:     ownerID,
			recipients: []string{invite.Email},
			vars: map[string]string{
				"workspace": invite.WorkspaceName,
				"email":     invite.Email,
				"code":      invite.Code,
			},
		})
	}
	return jobs
}

func contractCreatedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.ContractCreatedPayload)
	if !ok {
		return nil
	}
	return s.ownerJob(ctx, ownerID, map[string]string{
		"subject":    p.Contract.Subject,
		"value":      money(p.Contract.Value),
		"start_date": dateStr(p.Contract.StartDate),
		"end_date":   dateStr(p.Contract.EndDate),
	})
}

func meetingCreatedJobs(ctx context.Context, s *Set, evt events.Event, ownerID snowflake.ID) []emailJob {
	p, ok := evt.Payload.(events.GoogleMeetingCreatedPayload)
	if !ok {
		return nil
	}
	jobs := make([]emailJob, 0, len(p.Members))
	for _, member := range p.Members {
		if member.Email == "" {
			continue
		}
		jobs = append(jobs, emailJob{
			userID:     member.ID,
			recipients: []string{member.Email},
			lang:       member.Lang,
			vars: map[string]string{
				"title":     p.Meeting.Title,
				"starts_at": p.Meeting.StartsAt.Format("2006-01-02 15:04"),
				"join_url":  p.Meeting.JoinURL,
				"member":    member.Name,
			},
		})
	}
	return jobs
}
