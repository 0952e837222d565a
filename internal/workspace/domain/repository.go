package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertWorkspace(ctx context.Context, db *gorm.DB, ws *Workspace) error
	FindWorkspaceByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Workspace, error)
	InsertUser(ctx context.Context, db *gorm.DB, user *User) error
	FindUserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*User, error)
	FindSuperAdmin(ctx context.Context, db *gorm.DB) (*User, error)
	FindWorkspaceOwner(ctx context.Context, db *gorm.DB, workspaceID snowflake.ID) (*User, error)
	CountUsers(ctx context.Context, db *gorm.DB, workspaceID snowflake.ID) (int64, error)
	ListUsersByType(ctx context.Context, db *gorm.DB, workspaceID snowflake.ID, userType UserType) ([]User, error)
}
