package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/workspace/domain"
	"gorm.io/gorm"
)

type repository struct{}

// Provide builds the workspace repository.
func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) InsertWorkspace(ctx context.Context, db *gorm.DB, ws *domain.Workspace) error {
	return db.WithContext(ctx).Create(ws).Error
}

func (r *repository) FindWorkspaceByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Workspace, error) {
	var ws domain.Workspace
	if err := db.WithContext(ctx).First(&ws, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *repository) InsertUser(ctx context.Context, db *gorm.DB, user *domain.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *repository) FindUserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	if err := db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	var user domain.User
	if err := db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindSuperAdmin(ctx context.Context, db *gorm.DB) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).
		Where("type = ?", domain.UserTypeSuperAdmin).
		Order("created_at asc").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindWorkspaceOwner(ctx context.Context, db *gorm.DB, workspaceID snowflake.ID) (*domain.User, error) {
	var ws domain.Workspace
	if err := db.WithContext(ctx).First(&ws, "id = ?", workspaceID).Error; err != nil {
		return nil, err
	}
	return r.FindUserByID(ctx, db, ws.OwnerID)
}

func (r *repository) CountUsers(ctx context.Context, db *gorm.DB, workspaceID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("workspace_id = ?", workspaceID).
		Count(&count).Error
	return count, err
}

func (r *repository) ListUsersByType(ctx context.Context, db *gorm.DB, workspaceID snowflake.ID, userType domain.UserType) ([]domain.User, error) {
	var users []domain.User
	err := db.WithContext(ctx).
		Where("workspace_id = ? AND type = ?", workspaceID, userType).
		Order("created_at asc").
		Find(&users).Error
	return users, err
}
