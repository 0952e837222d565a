package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	entitlementdomain "github.com/smallbiznis/taskora/internal/entitlement/domain"
	notificationdomain "github.com/smallbiznis/taskora/internal/notification/domain"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultWorkspaceName = "Main"
	defaultAdminEmail    = "admin@taskora.app"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "Taskora Admin"
	defaultPlanName      = "Starter"
)

// EnsureDefaults seeds the default workspace, superadmin, starter plan and
// the stock email templates. Idempotent; safe on every startup.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admin, err := ensureAdminTx(ctx, tx, node)
		if err != nil {
			return err
		}
		ws, err := ensureWorkspaceTx(ctx, tx, node, admin.ID)
		if err != nil {
			return err
		}
		if admin.WorkspaceID == 0 {
			if err := tx.WithContext(ctx).
				Model(&workspacedomain.User{}).
				Where("id = ?", admin.ID).
				Update("workspace_id", ws.ID).Error; err != nil {
				return err
			}
		}
		if _, err := ensurePlanTx(ctx, tx, node); err != nil {
			return err
		}
		return ensureTemplatesTx(ctx, tx, node, admin.ID)
	})
}

func ensureAdminTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (workspacedomain.User, error) {
	var user workspacedomain.User
	err := tx.WithContext(ctx).
		Where("email = ?", defaultAdminEmail).
		First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return user, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return user, err
	}
	now := time.Now().UTC()
	user = workspacedomain.User{
		ID:        node.Generate(),
		Email:     strings.ToLower(defaultAdminEmail),
		Name:      defaultAdminDisplay,
		Type:      workspacedomain.UserTypeSuperAdmin,
		Lang:      notificationdomain.DefaultLang,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
		return user, err
	}
	return user, nil
}

func ensureWorkspaceTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, ownerID snowflake.ID) (workspacedomain.Workspace, error) {
	var ws workspacedomain.Workspace
	wsSlug := slug.Make(defaultWorkspaceName)
	err := tx.WithContext(ctx).Where("slug = ?", wsSlug).First(&ws).Error
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ws, err
	}

	now := time.Now().UTC()
	ws = workspacedomain.Workspace{
		ID:        node.Generate(),
		Name:      defaultWorkspaceName,
		Slug:      wsSlug,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&ws).Error; err != nil {
		return ws, err
	}
	return ws, nil
}

func ensurePlanTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (entitlementdomain.Plan, error) {
	var plan entitlementdomain.Plan
	err := tx.WithContext(ctx).Where("name = ?", defaultPlanName).First(&plan).Error
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return plan, err
	}

	now := time.Now().UTC()
	plan = entitlementdomain.Plan{
		ID:            node.Generate(),
		Name:          defaultPlanName,
		MaxUsers:      10,
		MaxWorkspaces: 1,
		MaxStorageMB:  1024,
		TrialDays:     14,
		Price:         0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.WithContext(ctx).Create(&plan).Error; err != nil {
		return plan, err
	}
	return plan, nil
}

// ensureTemplatesTx inserts the stock English template for every module,
// enabled by default, owned by the superadmin so single-tenant installs
// work without any setup.
func ensureTemplatesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, ownerID snowflake.ID) error {
	now := time.Now().UTC()
	for _, module := range notificationdomain.Modules {
		var existing notificationdomain.NotificationTemplate
		err := tx.WithContext(ctx).
			Where("owner_id = ? AND name = ? AND lang = ?", ownerID, module, notificationdomain.DefaultLang).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		tpl := notificationdomain.NotificationTemplate{
			ID:        node.Generate(),
			OwnerID:   ownerID,
			Name:      module,
			Lang:      notificationdomain.DefaultLang,
			Subject:   fmt.Sprintf("%s notification", module),
			Body:      defaultBody(module),
			Enabled:   true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&tpl).Error; err != nil {
			return err
		}
	}
	return nil
}

func defaultBody(module string) string {
	switch module {
	case notificationdomain.ModuleNewUser:
		return "<p>Welcome {name}! Your account {email} is ready. Temporary password: {password}</p>"
	case notificationdomain.ModuleInvitation:
		return "<p>You have been invited to {workspace}. Use code {code} to join.</p>"
	case notificationdomain.ModuleTaskAssignment:
		return "<p>Hi {assignee}, the task \"{title}\" was assigned to you. Priority: {priority}, due {due_date}.</p>"
	default:
		return fmt.Sprintf("<p>%s: {title}</p>", module)
	}
}
