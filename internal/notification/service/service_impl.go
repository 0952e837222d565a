package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/notification/channel"
	"github.com/smallbiznis/taskora/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Node *snowflake.Node
	Repo domain.Repository
}

// Service implements both the dispatch-time Resolver and the admin surface.
type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	node *snowflake.Node
	repo domain.Repository
}

func New(p Params) *Service {
	return &Service{
		db:   p.DB,
		log:  p.Log,
		node: p.Node,
		repo: p.Repo,
	}
}

var (
	_ domain.Resolver = (*Service)(nil)
	_ domain.Service  = (*Service)(nil)
)

// IsEmailEnabled reports whether an enabled template row exists under the
// owner for any language. Absence of the row means the module's email is
// switched off, not misconfigured.
func (s *Service) IsEmailEnabled(ctx context.Context, templateName string, ownerID snowflake.ID) bool {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&domain.NotificationTemplate{}).
		Where("owner_id = ? AND name = ? AND enabled = ?", ownerID, strings.TrimSpace(templateName), true).
		Count(&count).Error
	if err != nil {
		s.log.Warn("template enablement lookup failed",
			zap.String("template", templateName),
			zap.Error(err),
		)
		return false
	}
	return count > 0
}

func (s *Service) IsChannelEnabled(ctx context.Context, module string, userID snowflake.ID, ch channel.Channel) bool {
	pref, err := s.repo.FindPreference(ctx, s.db, module, userID, ch)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("preference lookup failed",
				zap.String("module", module),
				zap.String("channel", string(ch)),
				zap.Error(err),
			)
		}
		return false
	}
	return pref.Enabled
}

// ResolveTemplate prefers the requested language and falls back to the
// default one before giving up.
func (s *Service) ResolveTemplate(ctx context.Context, templateName string, ownerID snowflake.ID, lang string) (*domain.NotificationTemplate, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = domain.DefaultLang
	}

	tpl, err := s.repo.FindTemplate(ctx, s.db, templateName, ownerID, lang)
	if err == nil {
		return tpl, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if lang != domain.DefaultLang {
		tpl, err = s.repo.FindTemplate(ctx, s.db, templateName, ownerID, domain.DefaultLang)
		if err == nil {
			return tpl, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return nil, domain.ErrTemplateNotFound
}

func (s *Service) ChannelTarget(ctx context.Context, userID snowflake.ID, ch channel.Channel) (*domain.ChannelTarget, error) {
	target, err := s.repo.FindChannelTarget(ctx, s.db, userID, ch)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (s *Service) WebhookFor(ctx context.Context, module string, userID snowflake.ID) (*domain.WebhookEndpoint, error) {
	hook, err := s.repo.FindWebhook(ctx, s.db, module, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return hook, nil
}

func (s *Service) ListTemplates(ctx context.Context, ownerID snowflake.ID) ([]domain.NotificationTemplate, error) {
	return s.repo.ListTemplates(ctx, s.db, ownerID)
}

func (s *Service) SetTemplateEnabled(ctx context.Context, ownerID snowflake.ID, name string, enabled bool) error {
	if !domain.KnownModule(strings.TrimSpace(name)) {
		return domain.ErrInvalidModule
	}
	return s.repo.SetTemplateEnabled(ctx, s.db, ownerID, name, enabled)
}

func (s *Service) SetPreference(ctx context.Context, pref domain.NotificationPreference) error {
	pref.Module = strings.TrimSpace(pref.Module)
	if !domain.KnownModule(pref.Module) {
		return domain.ErrInvalidModule
	}
	if !domain.KnownChannel(pref.Channel) {
		return domain.ErrInvalidChannel
	}
	if pref.ID == 0 {
		pref.ID = s.node.Generate()
	}
	return s.repo.UpsertPreference(ctx, s.db, &pref)
}

func (s *Service) SetChannelTarget(ctx context.Context, target domain.ChannelTarget) error {
	if target.Channel != channel.Slack && target.Channel != channel.Telegram {
		return domain.ErrInvalidChannel
	}
	target.Destination = strings.TrimSpace(target.Destination)
	if target.Destination == "" {
		return domain.ErrInvalidURL
	}
	if target.Channel == channel.Slack {
		if _, err := url.ParseRequestURI(target.Destination); err != nil {
			return domain.ErrInvalidURL
		}
	}
	if target.ID == 0 {
		target.ID = s.node.Generate()
	}
	return s.repo.UpsertChannelTarget(ctx, s.db, &target)
}

func (s *Service) RegisterWebhook(ctx context.Context, hook domain.WebhookEndpoint) (domain.WebhookEndpoint, error) {
	hook.Module = strings.TrimSpace(hook.Module)
	if !domain.KnownModule(hook.Module) {
		return domain.WebhookEndpoint{}, domain.ErrInvalidModule
	}
	hook.URL = strings.TrimSpace(hook.URL)
	u, err := url.ParseRequestURI(hook.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return domain.WebhookEndpoint{}, domain.ErrInvalidURL
	}
	if hook.ID == 0 {
		hook.ID = s.node.Generate()
	}
	if err := s.repo.InsertWebhook(ctx, s.db, &hook); err != nil {
		return domain.WebhookEndpoint{}, err
	}
	return hook, nil
}

func (s *Service) ListWebhooks(ctx context.Context, workspaceID snowflake.ID) ([]domain.WebhookEndpoint, error) {
	return s.repo.ListWebhooks(ctx, s.db, workspaceID)
}

func (s *Service) RemoveWebhook(ctx context.Context, id snowflake.ID) error {
	hook, err := s.repo.FindWebhookByID(ctx, s.db, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return s.repo.DeleteWebhook(ctx, s.db, hook.ID)
}
