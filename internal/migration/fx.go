package migration

import (
	"github.com/smallbiznis/taskora/internal/config"
	entitlementdomain "github.com/smallbiznis/taskora/internal/entitlement/domain"
	notificationdomain "github.com/smallbiznis/taskora/internal/notification/domain"
	"github.com/smallbiznis/taskora/internal/seed"
	taskdomain "github.com/smallbiznis/taskora/internal/task/domain"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := autoMigrate(conn); err != nil {
				return err
			}
		}
		return seed.EnsureDefaults(conn)
	}),
)

// autoMigrate covers sqlite and mysql, where the embedded postgres DDL
// does not apply.
func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&workspacedomain.Workspace{},
		&workspacedomain.User{},
		&notificationdomain.NotificationTemplate{},
		&notificationdomain.NotificationPreference{},
		&notificationdomain.ChannelTarget{},
		&notificationdomain.WebhookEndpoint{},
		&entitlementdomain.Plan{},
		&entitlementdomain.Subscription{},
		&taskdomain.Task{},
		&taskdomain.TaskAssignee{},
	)
}
