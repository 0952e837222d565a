package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Plan is a purchasable quota bundle. Rows are seeded or managed out of
// band; the gate only reads them.
type Plan struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"not null;uniqueIndex" json:"name"`
	MaxUsers      int          `gorm:"not null;default:0" json:"max_users"`
	MaxWorkspaces int          `gorm:"not null;default:1" json:"max_workspaces"`
	MaxStorageMB  int64        `gorm:"not null;default:0" json:"max_storage_mb"`
	TrialDays     int          `gorm:"not null;default:0" json:"trial_days"`
	Price         float64      `gorm:"not null;default:0" json:"price"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Plan) TableName() string { return "plans" }

// Subscription ties a workspace to a plan. A subscription is live while
// Active with an unexpired ExpiresAt, or while still inside its trial.
type Subscription struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID `gorm:"not null;uniqueIndex" json:"workspace_id"`
	PlanID      snowflake.ID `gorm:"not null" json:"plan_id"`
	TrialEndsAt *time.Time   `json:"trial_ends_at,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	Active      bool         `gorm:"not null;default:false" json:"active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

// Live reports whether the subscription entitles writes at the given time.
func (s *Subscription) Live(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.Active && (s.ExpiresAt == nil || s.ExpiresAt.After(now)) {
		return true
	}
	return s.TrialEndsAt != nil && s.TrialEndsAt.After(now)
}

// InTrial reports whether the subscription is still inside its trial window.
func (s *Subscription) InTrial(now time.Time) bool {
	return s != nil && s.TrialEndsAt != nil && s.TrialEndsAt.After(now)
}
