package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/task/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct{}

// Provide builds the task repository.
func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, task *domain.Task) error {
	return db.WithContext(ctx).Create(task).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Task, error) {
	var task domain.Task
	err := db.WithContext(ctx).
		Preload("Assignees").
		First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *repository) ListByWorkspace(ctx context.Context, db *gorm.DB, workspaceID snowflake.ID) ([]domain.Task, error) {
	var tasks []domain.Task
	err := db.WithContext(ctx).
		Preload("Assignees").
		Where("workspace_id = ?", workspaceID).
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, err
}

func (r *repository) UpdateStage(ctx context.Context, db *gorm.DB, id snowflake.ID, stage string) error {
	return db.WithContext(ctx).
		Model(&domain.Task{}).
		Where("id = ?", id).
		Update("stage", stage).Error
}

func (r *repository) AddAssignees(ctx context.Context, db *gorm.DB, assignees []domain.TaskAssignee) error {
	if len(assignees) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignees).Error
}
