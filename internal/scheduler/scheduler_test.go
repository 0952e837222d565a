package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/taskora/internal/clock"
	"github.com/smallbiznis/taskora/internal/config"
	entitlementdomain "github.com/smallbiznis/taskora/internal/entitlement/domain"
	entitlementservice "github.com/smallbiznis/taskora/internal/entitlement/service"
	"github.com/smallbiznis/taskora/internal/notification/channel"
	notificationdomain "github.com/smallbiznis/taskora/internal/notification/domain"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type reminderResolver struct {
	enabled bool
}

func (r *reminderResolver) IsEmailEnabled(ctx context.Context, templateName string, ownerID snowflake.ID) bool {
	return r.enabled
}

func (r *reminderResolver) IsChannelEnabled(ctx context.Context, module string, userID snowflake.ID, ch channel.Channel) bool {
	return false
}

func (r *reminderResolver) ResolveTemplate(ctx context.Context, templateName string, ownerID snowflake.ID, lang string) (*notificationdomain.NotificationTemplate, error) {
	if !r.enabled {
		return nil, notificationdomain.ErrTemplateNotFound
	}
	return &notificationdomain.NotificationTemplate{
		Name:    templateName,
		Lang:    "en",
		Subject: "Your trial ends {ends_at}",
		Body:    "<p>{name}, the trial for {workspace} ends on {ends_at}.</p>",
		Enabled: true,
	}, nil
}

func (r *reminderResolver) ChannelTarget(ctx context.Context, userID snowflake.ID, ch channel.Channel) (*notificationdomain.ChannelTarget, error) {
	return nil, nil
}

func (r *reminderResolver) WebhookFor(ctx context.Context, module string, userID snowflake.ID) (*notificationdomain.WebhookEndpoint, error) {
	return nil, nil
}

type reminderWorkspaces struct{}

func (reminderWorkspaces) GetUser(ctx context.Context, id snowflake.ID) (*workspacedomain.User, error) {
	return &workspacedomain.User{ID: id, Email: "owner@example.com", Name: "Owner", Lang: "en"}, nil
}

func (reminderWorkspaces) GetWorkspace(ctx context.Context, id snowflake.ID) (*workspacedomain.Workspace, error) {
	return &workspacedomain.Workspace{ID: id, Name: "Main", Slug: "main", OwnerID: 100}, nil
}

func (reminderWorkspaces) CountUsers(ctx context.Context, workspaceID snowflake.ID) (int64, error) {
	return 1, nil
}

type reminderMailer struct {
	calls    int
	to       []string
	subjects []string
}

func (m *reminderMailer) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	m.calls++
	m.to = append(m.to, to...)
	m.subjects = append(m.subjects, subject)
	return nil
}

func newTestScheduler(t *testing.T, now time.Time, resolver *reminderResolver, mailer *reminderMailer) (*Scheduler, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entitlementdomain.Plan{}, &entitlementdomain.Subscription{}))

	fakeClock := clock.NewFakeClock(now)
	entitlement := entitlementservice.New(entitlementservice.Params{
		DB:         db,
		Log:        zap.NewNop(),
		Cfg:        config.Config{Mode: config.ModeSaaS},
		Clock:      fakeClock,
		Workspaces: reminderWorkspaces{},
	})

	sched, err := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       fakeClock,
		Entitlement: entitlement,
		Resolver:    resolver,
		Workspaces:  reminderWorkspaces{},
		Email:       mailer,
	})
	require.NoError(t, err)
	return sched, db
}

func TestTrialReminderMailsOwnersInsideWindow(t *testing.T) {
	now := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	mailer := &reminderMailer{}
	sched, db := newTestScheduler(t, now, &reminderResolver{enabled: true}, mailer)

	inWindow := now.Add(48 * time.Hour)
	outside := now.Add(10 * 24 * time.Hour)
	require.NoError(t, db.Create(&entitlementdomain.Subscription{ID: 1, WorkspaceID: 7, PlanID: 10, TrialEndsAt: &inWindow}).Error)
	require.NoError(t, db.Create(&entitlementdomain.Subscription{ID: 2, WorkspaceID: 8, PlanID: 10, TrialEndsAt: &outside}).Error)

	require.NoError(t, sched.TrialReminderJob(context.Background()))

	require.Equal(t, 1, mailer.calls)
	assert.Equal(t, []string{"owner@example.com"}, mailer.to)
	assert.Equal(t, "Your trial ends 2026-08-03", mailer.subjects[0])
}

func TestTrialReminderSkipsWhenTemplateDisabled(t *testing.T) {
	now := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	mailer := &reminderMailer{}
	sched, db := newTestScheduler(t, now, &reminderResolver{enabled: false}, mailer)

	inWindow := now.Add(24 * time.Hour)
	require.NoError(t, db.Create(&entitlementdomain.Subscription{ID: 1, WorkspaceID: 7, PlanID: 10, TrialEndsAt: &inWindow}).Error)

	require.NoError(t, sched.TrialReminderJob(context.Background()))

	assert.Zero(t, mailer.calls, "reminder is opt-in via the template")
}

func TestRunOnceHonorsJobSelection(t *testing.T) {
	now := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	mailer := &reminderMailer{}
	sched, db := newTestScheduler(t, now, &reminderResolver{enabled: true}, mailer)
	sched.cfg.EnabledJobs = []string{"some_other_job"}

	inWindow := now.Add(24 * time.Hour)
	require.NoError(t, db.Create(&entitlementdomain.Subscription{ID: 1, WorkspaceID: 7, PlanID: 10, TrialEndsAt: &inWindow}).Error)

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Zero(t, mailer.calls)

	sched.cfg.EnabledJobs = nil
	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Equal(t, 1, mailer.calls)
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Params{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
