package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/taskora/internal/clock"
	entitlementservice "github.com/smallbiznis/taskora/internal/entitlement/service"
	notificationdomain "github.com/smallbiznis/taskora/internal/notification/domain"
	"github.com/smallbiznis/taskora/internal/providers/email"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// trialReminderTemplate is the opt-in template guarding the reminder: no
// enabled template for the owner means no reminder mail.
const trialReminderTemplate = "Trial Reminder"

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	Entitlement *entitlementservice.Service
	Resolver    notificationdomain.Resolver
	Workspaces  workspacedomain.Service
	Email       email.Provider
	Config      Config `optional:"true"`
}

type Scheduler struct {
	db          *gorm.DB
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	entitlement *entitlementservice.Service
	resolver    notificationdomain.Resolver
	workspaces  workspacedomain.Service
	email       email.Provider
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.Clock == nil || p.Entitlement == nil || p.Resolver == nil || p.Workspaces == nil || p.Email == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:          p.DB,
		log:         p.Log.Named("scheduler"),
		cfg:         p.Config.withDefaults(),
		clock:       p.Clock,
		entitlement: p.Entitlement,
		resolver:    p.Resolver,
		workspaces:  p.Workspaces,
		email:       p.Email,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	log.Debug("job start")

	err := fn(ctx)
	log.Debug("job finish", zap.Duration("elapsed", time.Since(start)))
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("job timed out", zap.Duration("timeout", timeout), zap.Error(err))
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{"trial_reminder", func(ctx context.Context) error {
			return s.runJob(ctx, "trial_reminder", 5*time.Minute, s.TrialReminderJob)
		}},
	}

	for _, job := range jobs {
		if s.isJobEnabled(job.Name) {
			err = errors.Join(err, job.Run(parent))
		}
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

// TrialReminderJob mails workspace owners whose trial expires inside the
// reminder window. One mail per run per workspace; failures are logged
// per workspace and never abort the sweep.
func (s *Scheduler) TrialReminderJob(ctx context.Context) error {
	now := s.clock.Now()
	cutoff := now.Add(s.cfg.TrialReminderWindow)

	subs, err := s.entitlement.TrialsEndingBefore(ctx, now, cutoff)
	if err != nil {
		return err
	}

	var jobErr error
	for _, sub := range subs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		ws, err := s.workspaces.GetWorkspace(ctx, sub.WorkspaceID)
		if err != nil {
			jobErr = errors.Join(jobErr, err)
			continue
		}
		owner, err := s.workspaces.GetUser(ctx, ws.OwnerID)
		if err != nil || owner.Email == "" {
			continue
		}
		if !s.resolver.IsEmailEnabled(ctx, trialReminderTemplate, owner.ID) {
			continue
		}

		tpl, err := s.resolver.ResolveTemplate(ctx, trialReminderTemplate, owner.ID, owner.Lang)
		if err != nil {
			continue
		}
		vars := map[string]string{
			"name":      owner.Name,
			"workspace": ws.Name,
			"ends_at":   sub.TrialEndsAt.Format("2006-01-02"),
		}

		if err := s.email.Send(ctx, []string{owner.Email}, email.Render(tpl.Subject, vars), email.Render(tpl.Body, vars)); err != nil {
			jobErr = errors.Join(jobErr, err)
			s.log.Warn("trial reminder failed",
				zap.String("workspace", ws.Slug),
				zap.Error(err),
			)
		}
	}
	return jobErr
}
