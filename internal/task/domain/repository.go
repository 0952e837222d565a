package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, task *Task) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Task, error)
	ListByWorkspace(ctx context.Context, db *gorm.DB, workspaceID snowflake.ID) ([]Task, error)
	UpdateStage(ctx context.Context, db *gorm.DB, id snowflake.ID, stage string) error
	AddAssignees(ctx context.Context, db *gorm.DB, assignees []TaskAssignee) error
}
