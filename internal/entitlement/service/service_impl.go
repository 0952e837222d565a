package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/clock"
	"github.com/smallbiznis/taskora/internal/config"
	"github.com/smallbiznis/taskora/internal/entitlement/domain"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// warnThreshold is the quota fraction at which warnings start.
const warnThreshold = 0.8

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Cfg        config.Config
	Clock      clock.Clock
	Workspaces workspacedomain.Service
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	cfg        config.Config
	clock      clock.Clock
	workspaces workspacedomain.Service
}

func New(p Params) *Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("entitlement"),
		cfg:        p.Cfg,
		clock:      p.Clock,
		workspaces: p.Workspaces,
	}
}

var _ domain.Service = (*Service)(nil)

// Evaluate applies the gate rules in order: standalone deployments and
// superadmins are never gated; a workspace without a live subscription or
// trial is rejected; everyone else passes with best-effort quota warnings.
func (s *Service) Evaluate(ctx context.Context, user *workspacedomain.User) domain.Evaluation {
	if !s.cfg.IsSaaS() {
		return domain.Evaluation{Decision: domain.Allowed}
	}
	if user == nil || user.IsSuperAdmin() {
		return domain.Evaluation{Decision: domain.Allowed}
	}

	now := s.clock.Now()

	sub, err := s.findSubscription(ctx, user.WorkspaceID)
	if err != nil {
		// Infrastructure failure: fail open rather than lock every tenant out.
		s.log.Warn("subscription lookup failed", zap.Error(err))
		return domain.Evaluation{Decision: domain.Allowed}
	}
	if !sub.Live(now) {
		return domain.Evaluation{
			Decision: domain.Rejected,
			Redirect: domain.RedirectPlans,
		}
	}

	return domain.Evaluation{
		Decision: domain.Allowed,
		Warnings: s.quotaWarnings(ctx, user.WorkspaceID, sub.PlanID),
	}
}

func (s *Service) findSubscription(ctx context.Context, workspaceID snowflake.ID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := s.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// quotaWarnings reports quotas at 80% or more. Any failure here returns
// no warnings; the gate decision is already made.
func (s *Service) quotaWarnings(ctx context.Context, workspaceID, planID snowflake.ID) []string {
	var plan domain.Plan
	if err := s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error; err != nil {
		return nil
	}

	var warnings []string

	if plan.MaxUsers > 0 {
		count, err := s.workspaces.CountUsers(ctx, workspaceID)
		if err == nil && float64(count) >= warnThreshold*float64(plan.MaxUsers) {
			warnings = append(warnings, fmt.Sprintf("%d of %d seats used", count, plan.MaxUsers))
		}
	}

	if plan.MaxStorageMB > 0 {
		ws, err := s.workspaces.GetWorkspace(ctx, workspaceID)
		if err == nil && float64(ws.StorageUsedMB) >= warnThreshold*float64(plan.MaxStorageMB) {
			warnings = append(warnings, fmt.Sprintf("%d of %d MB storage used", ws.StorageUsedMB, plan.MaxStorageMB))
		}
	}

	return warnings
}

// TrialsEndingBefore lists active trials that expire before the cutoff,
// for the reminder job.
func (s *Service) TrialsEndingBefore(ctx context.Context, now, cutoff time.Time) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := s.db.WithContext(ctx).
		Where("trial_ends_at IS NOT NULL AND trial_ends_at > ? AND trial_ends_at <= ?", now, cutoff).
		Find(&subs).Error
	return subs, err
}
