package listeners

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/events"
	"github.com/smallbiznis/taskora/internal/notification/adapter"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Owners   workspacedomain.Resolver
	Users    workspacedomain.Service
	Email    *adapter.EmailAdapter
	Slack    *adapter.SlackAdapter
	Telegram *adapter.TelegramAdapter
	Webhook  *adapter.WebhookAdapter
	Welcome  *WelcomeGuard
}

// Set holds the shared dependencies of every listener. Individual listeners
// are thin closures over it.
type Set struct {
	log      *zap.Logger
	owners   workspacedomain.Resolver
	users    workspacedomain.Service
	email    *adapter.EmailAdapter
	slack    *adapter.SlackAdapter
	telegram *adapter.TelegramAdapter
	webhook  *adapter.WebhookAdapter
	welcome  *WelcomeGuard
}

func NewSet(p Params) *Set {
	return &Set{
		log:      p.Log.Named("listeners"),
		owners:   p.Owners,
		users:    p.Users,
		email:    p.Email,
		slack:    p.Slack,
		telegram: p.Telegram,
		webhook:  p.Webhook,
		welcome:  p.Welcome,
	}
}

// owner resolves the tenant owner for the event: the payload's CreatedBy
// when present, else the acting user, each walked up to their company owner.
func (s *Set) owner(ctx context.Context, evt events.Event) (snowflake.ID, bool) {
	actor := creatorOf(evt)
	if actor == nil {
		actor = evt.ActorID
	}
	return s.owners.ResolveOwner(ctx, actor)
}

// creatorOf extracts the creating user from the typed payload.
func creatorOf(evt events.Event) *snowflake.ID {
	switch p := evt.Payload.(type) {
	case events.TaskCreatedPayload:
		return p.Task.CreatedBy
	case events.TaskAssignedPayload:
		if p.AssignedBy != nil {
			return p.AssignedBy
		}
		return p.Task.CreatedBy
	case events.InvoiceCreatedPayload:
		return p.Invoice.CreatedBy
	case events.InvoiceStatusUpdatedPayload:
		return p.Invoice.CreatedBy
	case events.BudgetCreatedPayload:
		return p.Budget.CreatedBy
	case events.ProjectCreatedPayload:
		return p.Project.CreatedBy
	case events.ProjectMemberAssignedPayload:
		return p.Project.CreatedBy
	case events.BugAssignedPayload:
		return p.Bug.CreatedBy
	case events.ExpenseCreatedPayload:
		return p.Expense.CreatedBy
	case events.ExpenseApprovalRequestedPayload:
		return p.Expense.CreatedBy
	case events.MilestoneCreatedPayload:
		return p.Milestone.CreatedBy
	case events.MilestoneStatusUpdatedPayload:
		return p.Milestone.CreatedBy
	case events.TaskStageUpdatedPayload:
		return p.Task.CreatedBy
	case events.TaskCommentAddedPayload:
		if p.Comment.AuthorID != nil {
			return p.Comment.AuthorID
		}
		return p.Task.CreatedBy
	case events.UserCreatedPayload:
		return p.User.CreatedBy
	case events.ContractCreatedPayload:
		return p.Contract.CreatedBy
	case events.GoogleMeetingCreatedPayload:
		return p.Meeting.CreatedBy
	default:
		return nil
	}
}

// ownerJob builds the single-recipient job addressed to the tenant owner.
func (s *Set) ownerJob(ctx context.Context, ownerID snowflake.ID, vars map[string]string) []emailJob {
	u, err := s.users.GetUser(ctx, ownerID)
	if err != nil || u.Email == "" {
		return nil
	}
	return []emailJob{{
		userID:     ownerID,
		recipients: []string{u.Email},
		lang:       u.Lang,
		vars:       vars,
	}}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func dateStr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
