package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type UserType string

const (
	UserTypeSuperAdmin UserType = "superadmin"
	UserTypeCompany    UserType = "company"
	UserTypeMember     UserType = "member"
	UserTypeClient     UserType = "client"
)

// Workspace is the tenant boundary every record is scoped to.
type Workspace struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Name          string       `gorm:"not null" json:"name"`
	Slug          string       `gorm:"not null;uniqueIndex" json:"slug"`
	OwnerID       snowflake.ID `gorm:"not null;index" json:"owner_id"`
	StorageUsedMB int64        `gorm:"not null;default:0" json:"storage_used_mb"`
	CreatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Workspace) TableName() string { return "workspaces" }

type User struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID  `gorm:"index" json:"workspace_id"`
	Email       string        `gorm:"not null;uniqueIndex" json:"email"`
	Name        string        `gorm:"not null" json:"name"`
	Type        UserType      `gorm:"not null;default:member" json:"type"`
	Lang        string        `gorm:"not null;default:en" json:"lang"`
	Password    string        `gorm:"not null" json:"-"`
	CreatedBy   *snowflake.ID `gorm:"index" json:"created_by,omitempty"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

func (u User) IsSuperAdmin() bool {
	return u.Type == UserTypeSuperAdmin
}

// IsCompanyOwner reports whether the user owns its workspace.
func (u User) IsCompanyOwner() bool {
	return u.Type == UserTypeCompany
}
