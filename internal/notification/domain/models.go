package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/notification/channel"
)

// Module names preferences and templates are keyed by. One module per
// notification-worthy domain action.
const (
	ModuleNewTask           = "New Task"
	ModuleTaskAssignment    = "Task Assignment"
	ModuleNewInvoice        = "New Invoice"
	ModuleInvoiceStatus     = "Invoice Status Updated"
	ModuleNewBudget         = "New Budget"
	ModuleNewProject        = "New Project"
	ModuleProjectAssignment = "Project Assignment"
	ModuleBugAssignment     = "Bug Assignment"
	ModuleNewExpense        = "New Expense"
	ModuleExpenseApproval   = "Expense Approval"
	ModuleNewMilestone      = "New Milestone"
	ModuleMilestoneStatus   = "Milestone Status Updated"
	ModuleTaskStage         = "Task Stage Updated"
	ModuleNewTaskComment    = "New Task Comment"
	ModuleNewUser           = "New User"
	ModuleInvitation        = "Workspace Invitation"
	ModuleNewContract       = "New Contract"
	ModuleNewMeeting        = "New Meeting"
)

// Modules lists every notification module.
var Modules = []string{
	ModuleNewTask,
	ModuleTaskAssignment,
	ModuleNewInvoice,
	ModuleInvoiceStatus,
	ModuleNewBudget,
	ModuleNewProject,
	ModuleProjectAssignment,
	ModuleBugAssignment,
	ModuleNewExpense,
	ModuleExpenseApproval,
	ModuleNewMilestone,
	ModuleMilestoneStatus,
	ModuleTaskStage,
	ModuleNewTaskComment,
	ModuleNewUser,
	ModuleInvitation,
	ModuleNewContract,
	ModuleNewMeeting,
}

// DefaultLang is the template language fallback.
const DefaultLang = "en"

// NotificationTemplate is a tenant-customizable email template.
type NotificationTemplate struct {
	ID      snowflake.ID `gorm:"primaryKey" json:"id"`
	OwnerID snowflake.ID `gorm:"not null;uniqueIndex:ux_template_owner_name_lang,priority:1" json:"owner_id"`
	Name    string       `gorm:"not null;uniqueIndex:ux_template_owner_name_lang,priority:2" json:"name"`
	Lang    string       `gorm:"not null;default:en;uniqueIndex:ux_template_owner_name_lang,priority:3" json:"lang"`
	Subject string       `gorm:"not null" json:"subject"`
	Body    string       `gorm:"type:text;not null" json:"body"`
	Enabled bool         `gorm:"not null;default:true" json:"enabled"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (NotificationTemplate) TableName() string { return "notification_templates" }

// NotificationPreference enables one (module, user, channel) triple.
type NotificationPreference struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID    `gorm:"index" json:"workspace_id"`
	UserID      snowflake.ID    `gorm:"not null;uniqueIndex:ux_pref_user_module_channel,priority:1" json:"user_id"`
	Module      string          `gorm:"not null;uniqueIndex:ux_pref_user_module_channel,priority:2" json:"module"`
	Channel     channel.Channel `gorm:"not null;uniqueIndex:ux_pref_user_module_channel,priority:3" json:"channel"`
	Enabled     bool            `gorm:"not null;default:false" json:"enabled"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (NotificationPreference) TableName() string { return "notification_preferences" }

// ChannelTarget is the configured destination for a chat channel:
// a Slack incoming-webhook URL or a Telegram (token, chat id) pair.
type ChannelTarget struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID    `gorm:"index" json:"workspace_id"`
	UserID      snowflake.ID    `gorm:"not null;uniqueIndex:ux_target_user_channel,priority:1" json:"user_id"`
	Channel     channel.Channel `gorm:"not null;uniqueIndex:ux_target_user_channel,priority:2" json:"channel"`
	// Destination is the Slack webhook URL or Telegram chat id.
	Destination string `gorm:"not null" json:"destination"`
	// Token is the Telegram bot token; empty for Slack.
	Token string `gorm:"" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ChannelTarget) TableName() string { return "channel_targets" }

// WebhookEndpoint is a registered outbound webhook for one (module, user).
type WebhookEndpoint struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID `gorm:"index" json:"workspace_id"`
	UserID      snowflake.ID `gorm:"not null;uniqueIndex:ux_webhook_user_module,priority:1" json:"user_id"`
	Module      string       `gorm:"not null;uniqueIndex:ux_webhook_user_module,priority:2" json:"module"`
	URL         string       `gorm:"not null" json:"url"`
	Secret      string       `gorm:"" json:"-"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (WebhookEndpoint) TableName() string { return "webhook_endpoints" }
