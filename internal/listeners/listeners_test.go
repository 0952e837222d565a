package listeners

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/events"
	"github.com/smallbiznis/taskora/internal/notification/adapter"
	"github.com/smallbiznis/taskora/internal/notification/channel"
	notificationdomain "github.com/smallbiznis/taskora/internal/notification/domain"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testOwnerID     = snowflake.ID(100)
	testWorkspaceID = snowflake.ID(7)
)

type fakeOwners struct {
	ownerID snowflake.ID
	ok      bool
}

func (f *fakeOwners) ResolveOwner(ctx context.Context, actorID *snowflake.ID) (snowflake.ID, bool) {
	return f.ownerID, f.ok
}

type fakeUsers struct {
	users map[snowflake.ID]*workspacedomain.User
}

func (f *fakeUsers) GetUser(ctx context.Context, id snowflake.ID) (*workspacedomain.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, workspacedomain.ErrNotFound
}

func (f *fakeUsers) GetWorkspace(ctx context.Context, id snowflake.ID) (*workspacedomain.Workspace, error) {
	return &workspacedomain.Workspace{ID: id, OwnerID: testOwnerID}, nil
}

func (f *fakeUsers) CountUsers(ctx context.Context, workspaceID snowflake.ID) (int64, error) {
	return int64(len(f.users)), nil
}

type openResolver struct{}

func (openResolver) IsEmailEnabled(ctx context.Context, templateName string, ownerID snowflake.ID) bool {
	return true
}

func (openResolver) IsChannelEnabled(ctx context.Context, module string, userID snowflake.ID, ch channel.Channel) bool {
	return false
}

func (openResolver) ResolveTemplate(ctx context.Context, templateName string, ownerID snowflake.ID, lang string) (*notificationdomain.NotificationTemplate, error) {
	return &notificationdomain.NotificationTemplate{
		Name:    templateName,
		Lang:    "en",
		Subject: templateName,
		Body:    "<p>{title}</p>",
		Enabled: true,
	}, nil
}

func (openResolver) ChannelTarget(ctx context.Context, userID snowflake.ID, ch channel.Channel) (*notificationdomain.ChannelTarget, error) {
	return nil, nil
}

func (openResolver) WebhookFor(ctx context.Context, module string, userID snowflake.ID) (*notificationdomain.WebhookEndpoint, error) {
	return nil, nil
}

type countingEmailProvider struct {
	err   error
	calls int
	to    [][]string
}

func (p *countingEmailProvider) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	p.calls++
	p.to = append(p.to, to)
	return p.err
}

type noopSlackProvider struct{}

func (noopSlackProvider) PostMessage(ctx context.Context, webhookURL, text string) error { return nil }

type noopTelegramProvider struct{}

func (noopTelegramProvider) SendMessage(ctx context.Context, botToken, chatID, text string) error {
	return nil
}

type noopWebhookProvider struct{}

func (noopWebhookProvider) Deliver(ctx context.Context, endpoint, secret string, payload []byte) error {
	return nil
}

func newTestSet(t *testing.T, emailProvider *countingEmailProvider) *Set {
	t.Helper()

	resolver := openResolver{}
	welcome, err := NewWelcomeGuard()
	require.NoError(t, err)

	log := zap.NewNop()
	return NewSet(Params{
		Log:    log,
		Owners: &fakeOwners{ownerID: testOwnerID, ok: true},
		Users: &fakeUsers{users: map[snowflake.ID]*workspacedomain.User{
			testOwnerID: {ID: testOwnerID, WorkspaceID: testWorkspaceID, Email: "owner@example.com", Lang: "en"},
		}},
		Email:    adapter.NewEmailAdapter(adapter.EmailParams{Log: log, Resolver: resolver, Provider: emailProvider}),
		Slack:    adapter.NewSlackAdapter(adapter.SlackParams{Log: log, Resolver: resolver, Provider: noopSlackProvider{}}),
		Telegram: adapter.NewTelegramAdapter(adapter.TelegramParams{Log: log, Resolver: resolver, Provider: noopTelegramProvider{}}),
		Webhook:  adapter.NewWebhookAdapter(adapter.WebhookParams{Log: log, Resolver: resolver, Provider: noopWebhookProvider{}}),
		Welcome:  welcome,
	})
}

func newRegisteredBus(t *testing.T, s *Set) *events.Bus {
	t.Helper()
	bus := events.NewBus(events.BusParams{Log: zap.NewNop()})
	Register(bus, s)
	return bus
}

func TestRegistrationsCoverEveryEventType(t *testing.T) {
	provider := &countingEmailProvider{}
	s := newTestSet(t, provider)

	regs := s.Registrations()
	require.Len(t, regs, len(events.Types))

	seen := make(map[events.Type]bool, len(regs))
	for _, reg := range regs {
		require.Len(t, reg.Listeners, 4)
		assert.True(t, strings.HasSuffix(reg.Listeners[0].Name(), ".email"), "email listener runs first")
		assert.True(t, strings.HasSuffix(reg.Listeners[1].Name(), ".slack"))
		assert.True(t, strings.HasSuffix(reg.Listeners[2].Name(), ".telegram"))
		assert.True(t, strings.HasSuffix(reg.Listeners[3].Name(), ".webhook"))
		seen[reg.Type] = true
	}
	for _, eventType := range events.Types {
		assert.True(t, seen[eventType], "missing registration for %s", eventType)
	}
}

func TestWelcomeEmailSentOncePerUserRevision(t *testing.T) {
	provider := &countingEmailProvider{}
	s := newTestSet(t, provider)
	bus := newRegisteredBus(t, s)

	updatedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	payload := events.UserCreatedPayload{
		User: events.UserInfo{
			ID:          501,
			WorkspaceID: testWorkspaceID,
			Email:       "new@example.com",
			Name:        "New User",
			Lang:        "en",
			UpdatedAt:   updatedAt,
		},
		PlainPassword: "secret",
	}

	bus.Publish(context.Background(), events.Event{Type: events.UserCreated, WorkspaceID: testWorkspaceID, Payload: payload})
	bus.Publish(context.Background(), events.Event{Type: events.UserCreated, WorkspaceID: testWorkspaceID, Payload: payload})

	assert.Equal(t, 1, provider.calls, "duplicate (user, revision) must not send twice")

	// A genuinely changed record is welcomed again.
	payload.User.UpdatedAt = updatedAt.Add(time.Hour)
	bus.Publish(context.Background(), events.Event{Type: events.UserCreated, WorkspaceID: testWorkspaceID, Payload: payload})
	assert.Equal(t, 2, provider.calls)
}

func TestTaskAssignedPermanentEmailFailureSurfaces(t *testing.T) {
	provider := &countingEmailProvider{err: errors.New("SMTP connection refused")}
	s := newTestSet(t, provider)
	bus := newRegisteredBus(t, s)

	report := bus.Publish(context.Background(), taskAssignedEvent())

	assert.Equal(t, "Failed to send task assignment email: SMTP connection refused", report.EmailError())
}

func TestTaskAssignedRateLimitedEmailStaysSilent(t *testing.T) {
	provider := &countingEmailProvider{err: errors.New("Too many emails per second")}
	s := newTestSet(t, provider)
	bus := newRegisteredBus(t, s)

	report := bus.Publish(context.Background(), taskAssignedEvent())

	assert.Empty(t, report.EmailError(), "transient email failures never surface")
	require.Equal(t, 1, provider.calls)
}

func TestTaskAssignedSendsOneJobPerAssignee(t *testing.T) {
	provider := &countingEmailProvider{}
	s := newTestSet(t, provider)
	bus := newRegisteredBus(t, s)

	evt := taskAssignedEvent()
	payload := evt.Payload.(events.TaskAssignedPayload)
	payload.Assignees = append(payload.Assignees, events.UserInfo{
		ID: 502, WorkspaceID: testWorkspaceID, Email: "second@example.com", Name: "Second", Lang: "en",
	})
	evt.Payload = payload

	bus.Publish(context.Background(), evt)

	require.Equal(t, 2, provider.calls)
	assert.Equal(t, [][]string{{"dana@example.com"}, {"second@example.com"}}, provider.to)
}

func TestUnresolvableOwnerSkipsDelivery(t *testing.T) {
	provider := &countingEmailProvider{}
	welcome, err := NewWelcomeGuard()
	require.NoError(t, err)

	log := zap.NewNop()
	resolver := openResolver{}
	s := NewSet(Params{
		Log:      log,
		Owners:   &fakeOwners{ok: false},
		Users:    &fakeUsers{},
		Email:    adapter.NewEmailAdapter(adapter.EmailParams{Log: log, Resolver: resolver, Provider: provider}),
		Slack:    adapter.NewSlackAdapter(adapter.SlackParams{Log: log, Resolver: resolver, Provider: noopSlackProvider{}}),
		Telegram: adapter.NewTelegramAdapter(adapter.TelegramParams{Log: log, Resolver: resolver, Provider: noopTelegramProvider{}}),
		Webhook:  adapter.NewWebhookAdapter(adapter.WebhookParams{Log: log, Resolver: resolver, Provider: noopWebhookProvider{}}),
		Welcome:  welcome,
	})
	bus := newRegisteredBus(t, s)

	report := bus.Publish(context.Background(), taskAssignedEvent())

	assert.Zero(t, provider.calls)
	for _, attempt := range report.Attempts {
		assert.Equal(t, channel.Skipped, attempt.Outcome)
	}
}

func TestWelcomeGuardSingleSendUnderConcurrency(t *testing.T) {
	guard, err := NewWelcomeGuard()
	require.NoError(t, err)

	user := events.UserInfo{
		ID:        501,
		UpdatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	for i := 0; i < 200; i++ {
		racing := user
		racing.UpdatedAt = racing.UpdatedAt.Add(time.Duration(i) * time.Minute)

		var sends int64
		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if guard.ShouldSend(racing) {
					atomic.AddInt64(&sends, 1)
				}
			}()
		}
		wg.Wait()

		assert.EqualValues(t, 1, sends, "exactly one send per (user, revision)")
	}
}

func taskAssignedEvent() events.Event {
	actorID := testOwnerID
	return events.Event{
		Type:        events.TaskAssigned,
		WorkspaceID: testWorkspaceID,
		ActorID:     &actorID,
		Payload: events.TaskAssignedPayload{
			Task: events.Task{
				ID:          900,
				WorkspaceID: testWorkspaceID,
				Title:       "Ship it",
				Stage:       "incomplete",
				Priority:    "high",
			},
			Assignees: []events.UserInfo{{
				ID:          501,
				WorkspaceID: testWorkspaceID,
				Email:       "dana@example.com",
				Name:        "Dana",
				Lang:        "en",
			}},
			AssignedBy: &actorID,
		},
	}
}
