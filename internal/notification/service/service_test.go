package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/taskora/internal/notification/channel"
	"github.com/smallbiznis/taskora/internal/notification/domain"
	"github.com/smallbiznis/taskora/internal/notification/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.NotificationTemplate{},
		&domain.NotificationPreference{},
		&domain.ChannelTarget{},
		&domain.WebhookEndpoint{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Node: node,
		Repo: repository.Provide(),
	})
	return svc, db
}

func seedTemplate(t *testing.T, db *gorm.DB, ownerID snowflake.ID, name, lang string, enabled bool) {
	t.Helper()
	var langSum int64
	for _, b := range []byte(lang) {
		langSum += int64(b)
	}
	require.NoError(t, db.Create(&domain.NotificationTemplate{
		ID:      snowflake.ID(int64(ownerID)*1000 + int64(len(name)) + langSum),
		OwnerID: ownerID,
		Name:    name,
		Lang:    lang,
		Subject: name + " (" + lang + ")",
		Body:    "<p>{title}</p>",
		Enabled: enabled,
	}).Error)
}

func TestIsEmailEnabled(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	assert.False(t, svc.IsEmailEnabled(ctx, domain.ModuleNewTask, 1), "no template row means off")

	seedTemplate(t, db, 1, domain.ModuleNewTask, "en", true)
	assert.True(t, svc.IsEmailEnabled(ctx, domain.ModuleNewTask, 1))

	require.NoError(t, svc.SetTemplateEnabled(ctx, 1, domain.ModuleNewTask, false))
	assert.False(t, svc.IsEmailEnabled(ctx, domain.ModuleNewTask, 1))
}

func TestResolveTemplateFallsBackToDefaultLanguage(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	seedTemplate(t, db, 1, domain.ModuleNewInvoice, "en", true)
	seedTemplate(t, db, 1, domain.ModuleNewInvoice, "de", true)

	tpl, err := svc.ResolveTemplate(ctx, domain.ModuleNewInvoice, 1, "de")
	require.NoError(t, err)
	assert.Equal(t, "de", tpl.Lang)

	tpl, err = svc.ResolveTemplate(ctx, domain.ModuleNewInvoice, 1, "fr")
	require.NoError(t, err)
	assert.Equal(t, "en", tpl.Lang, "unknown language falls back to the default")

	tpl, err = svc.ResolveTemplate(ctx, domain.ModuleNewInvoice, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "en", tpl.Lang)

	_, err = svc.ResolveTemplate(ctx, domain.ModuleNewBudget, 1, "en")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestSetPreferenceAndIsChannelEnabled(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.False(t, svc.IsChannelEnabled(ctx, domain.ModuleNewTask, 2, channel.Slack), "absent preference defaults off")

	require.NoError(t, svc.SetPreference(ctx, domain.NotificationPreference{
		UserID:  2,
		Module:  domain.ModuleNewTask,
		Channel: channel.Slack,
		Enabled: true,
	}))
	assert.True(t, svc.IsChannelEnabled(ctx, domain.ModuleNewTask, 2, channel.Slack))

	// Upsert flips the same row off instead of inserting a second one.
	require.NoError(t, svc.SetPreference(ctx, domain.NotificationPreference{
		UserID:  2,
		Module:  domain.ModuleNewTask,
		Channel: channel.Slack,
		Enabled: false,
	}))
	assert.False(t, svc.IsChannelEnabled(ctx, domain.ModuleNewTask, 2, channel.Slack))
}

func TestSetPreferenceValidatesModuleAndChannel(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.SetPreference(ctx, domain.NotificationPreference{
		UserID:  2,
		Module:  "Unknown Module",
		Channel: channel.Slack,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidModule)

	err = svc.SetPreference(ctx, domain.NotificationPreference{
		UserID:  2,
		Module:  domain.ModuleNewTask,
		Channel: channel.Channel("pager"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidChannel)
}

func TestSetChannelTargetValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.SetChannelTarget(ctx, domain.ChannelTarget{
		UserID:      2,
		Channel:     channel.Email,
		Destination: "someone@example.com",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidChannel, "email has no target row")

	err = svc.SetChannelTarget(ctx, domain.ChannelTarget{
		UserID:      2,
		Channel:     channel.Slack,
		Destination: "not a url",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidURL)

	require.NoError(t, svc.SetChannelTarget(ctx, domain.ChannelTarget{
		UserID:      2,
		Channel:     channel.Telegram,
		Destination: "123456",
		Token:       "bot-token",
	}))

	target, err := svc.ChannelTarget(ctx, 2, channel.Telegram)
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, "123456", target.Destination)
}

func TestWebhookLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.RegisterWebhook(ctx, domain.WebhookEndpoint{
		UserID: 2,
		Module: domain.ModuleNewTask,
		URL:    "ftp://example.com/hook",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidURL)

	hook, err := svc.RegisterWebhook(ctx, domain.WebhookEndpoint{
		WorkspaceID: 7,
		UserID:      2,
		Module:      domain.ModuleNewTask,
		URL:         "https://example.com/hook",
		Secret:      "s3cret",
	})
	require.NoError(t, err)
	assert.NotZero(t, hook.ID)

	found, err := svc.WebhookFor(ctx, domain.ModuleNewTask, 2)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, hook.ID, found.ID)

	missing, err := svc.WebhookFor(ctx, domain.ModuleNewInvoice, 2)
	require.NoError(t, err)
	assert.Nil(t, missing, "unregistered module resolves to nil, not an error")

	hooks, err := svc.ListWebhooks(ctx, 7)
	require.NoError(t, err)
	require.Len(t, hooks, 1)

	require.NoError(t, svc.RemoveWebhook(ctx, hook.ID))
	assert.ErrorIs(t, svc.RemoveWebhook(ctx, hook.ID), domain.ErrNotFound)
}
