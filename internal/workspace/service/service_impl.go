package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/config"
	"github.com/smallbiznis/taskora/internal/workspace/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Cfg  config.Config
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	cfg  config.Config
	repo domain.Repository
}

func New(p Params) *Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("workspace.service"),
		cfg:  p.Cfg,
		repo: p.Repo,
	}
}

func (s *Service) GetUser(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}
	user, err := s.repo.FindUserByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) GetWorkspace(ctx context.Context, id snowflake.ID) (*domain.Workspace, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}
	ws, err := s.repo.FindWorkspaceByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ws, nil
}

func (s *Service) CountUsers(ctx context.Context, workspaceID snowflake.ID) (int64, error) {
	return s.repo.CountUsers(ctx, s.db, workspaceID)
}

// ResolveOwner applies the owner fallback chain. The acting user's company
// owner wins; a configured default owner and finally the superadmin keep
// notifications working when the acting context has no tenant.
func (s *Service) ResolveOwner(ctx context.Context, actorID *snowflake.ID) (snowflake.ID, bool) {
	if actorID != nil && *actorID != 0 {
		if owner, ok := s.ownerForUser(ctx, *actorID); ok {
			return owner, true
		}
	}

	if s.cfg.DefaultOwnerID != 0 {
		defaultID := snowflake.ID(s.cfg.DefaultOwnerID)
		if _, err := s.repo.FindUserByID(ctx, s.db, defaultID); err == nil {
			return defaultID, true
		}
	}

	admin, err := s.repo.FindSuperAdmin(ctx, s.db)
	if err != nil {
		return 0, false
	}
	return admin.ID, true
}

func (s *Service) ownerForUser(ctx context.Context, userID snowflake.ID) (snowflake.ID, bool) {
	user, err := s.repo.FindUserByID(ctx, s.db, userID)
	if err != nil {
		return 0, false
	}
	if user.IsCompanyOwner() || user.IsSuperAdmin() {
		return user.ID, true
	}
	if user.WorkspaceID != 0 {
		owner, err := s.repo.FindWorkspaceOwner(ctx, s.db, user.WorkspaceID)
		if err == nil {
			return owner.ID, true
		}
	}
	if user.CreatedBy != nil && *user.CreatedBy != 0 {
		return *user.CreatedBy, true
	}
	return 0, false
}
