package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/taskora/internal/clock"
	"github.com/smallbiznis/taskora/internal/config"
	"github.com/smallbiznis/taskora/internal/entitlement/domain"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubWorkspaces struct {
	userCount int64
	storageMB int64
}

func (s *stubWorkspaces) GetUser(ctx context.Context, id snowflake.ID) (*workspacedomain.User, error) {
	return &workspacedomain.User{ID: id}, nil
}

func (s *stubWorkspaces) GetWorkspace(ctx context.Context, id snowflake.ID) (*workspacedomain.Workspace, error) {
	return &workspacedomain.Workspace{ID: id, StorageUsedMB: s.storageMB}, nil
}

func (s *stubWorkspaces) CountUsers(ctx context.Context, workspaceID snowflake.ID) (int64, error) {
	return s.userCount, nil
}

func newTestService(t *testing.T, mode string, now time.Time, workspaces *stubWorkspaces) (*Service, *gorm.DB, *clock.FakeClock) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Plan{}, &domain.Subscription{}))

	fakeClock := clock.NewFakeClock(now)
	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		Cfg:        config.Config{Mode: mode},
		Clock:      fakeClock,
		Workspaces: workspaces,
	})
	return svc, db, fakeClock
}

func memberUser(workspaceID snowflake.ID) *workspacedomain.User {
	return &workspacedomain.User{ID: 2, WorkspaceID: workspaceID, Type: workspacedomain.UserTypeMember}
}

func TestEvaluateStandaloneAlwaysAllowed(t *testing.T) {
	svc, _, _ := newTestService(t, config.ModeStandalone, time.Now(), &stubWorkspaces{})

	eval := svc.Evaluate(context.Background(), memberUser(7))

	assert.Equal(t, domain.Allowed, eval.Decision)
}

func TestEvaluateSuperAdminNeverGated(t *testing.T) {
	svc, _, _ := newTestService(t, config.ModeSaaS, time.Now(), &stubWorkspaces{})

	// No subscription rows exist; a regular user would be rejected.
	admin := &workspacedomain.User{ID: 1, WorkspaceID: 7, Type: workspacedomain.UserTypeSuperAdmin}
	eval := svc.Evaluate(context.Background(), admin)

	assert.Equal(t, domain.Allowed, eval.Decision)
	assert.Empty(t, eval.Warnings)
}

func TestEvaluateMissingSubscriptionRejected(t *testing.T) {
	svc, _, _ := newTestService(t, config.ModeSaaS, time.Now(), &stubWorkspaces{})

	eval := svc.Evaluate(context.Background(), memberUser(7))

	assert.Equal(t, domain.Rejected, eval.Decision)
	assert.Equal(t, domain.RedirectPlans, eval.Redirect)
}

func TestEvaluateExpiredSubscriptionRejected(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, db, _ := newTestService(t, config.ModeSaaS, now, &stubWorkspaces{})

	expired := now.Add(-time.Hour)
	require.NoError(t, db.Create(&domain.Subscription{
		ID:          1,
		WorkspaceID: 7,
		PlanID:      10,
		Active:      true,
		ExpiresAt:   &expired,
	}).Error)

	eval := svc.Evaluate(context.Background(), memberUser(7))

	assert.Equal(t, domain.Rejected, eval.Decision)
}

func TestEvaluateActiveTrialAllowed(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, db, fakeClock := newTestService(t, config.ModeSaaS, now, &stubWorkspaces{})

	trialEnd := now.Add(72 * time.Hour)
	require.NoError(t, db.Create(&domain.Subscription{
		ID:          1,
		WorkspaceID: 7,
		PlanID:      10,
		Active:      false,
		TrialEndsAt: &trialEnd,
	}).Error)

	eval := svc.Evaluate(context.Background(), memberUser(7))
	assert.Equal(t, domain.Allowed, eval.Decision)

	// The same trial is rejected once the clock passes its end.
	fakeClock.Advance(96 * time.Hour)
	eval = svc.Evaluate(context.Background(), memberUser(7))
	assert.Equal(t, domain.Rejected, eval.Decision)
}

func TestEvaluateQuotaWarningsAtEightyPercent(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	workspaces := &stubWorkspaces{userCount: 8, storageMB: 100}
	svc, db, _ := newTestService(t, config.ModeSaaS, now, workspaces)

	require.NoError(t, db.Create(&domain.Plan{ID: 10, Name: "Starter", MaxUsers: 10, MaxStorageMB: 1024}).Error)
	require.NoError(t, db.Create(&domain.Subscription{
		ID:          1,
		WorkspaceID: 7,
		PlanID:      10,
		Active:      true,
	}).Error)

	eval := svc.Evaluate(context.Background(), memberUser(7))

	require.Equal(t, domain.Allowed, eval.Decision)
	assert.Equal(t, []string{"8 of 10 seats used"}, eval.Warnings)
}

func TestTrialsEndingBefore(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc, db, _ := newTestService(t, config.ModeSaaS, now, &stubWorkspaces{})

	inWindow := now.Add(48 * time.Hour)
	outside := now.Add(30 * 24 * time.Hour)
	expired := now.Add(-time.Hour)
	require.NoError(t, db.Create(&domain.Subscription{ID: 1, WorkspaceID: 7, PlanID: 10, TrialEndsAt: &inWindow}).Error)
	require.NoError(t, db.Create(&domain.Subscription{ID: 2, WorkspaceID: 8, PlanID: 10, TrialEndsAt: &outside}).Error)
	require.NoError(t, db.Create(&domain.Subscription{ID: 3, WorkspaceID: 9, PlanID: 10, TrialEndsAt: &expired}).Error)

	subs, err := svc.TrialsEndingBefore(context.Background(), now, now.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, snowflake.ID(7), subs[0].WorkspaceID)
}
