package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Task is the one entity built end to end: persisted, assigned, and the
// source of TaskCreated/TaskAssigned fan-out.
type Task struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	WorkspaceID snowflake.ID  `gorm:"not null;index" json:"workspace_id"`
	ProjectID   snowflake.ID  `gorm:"index" json:"project_id"`
	Title       string        `gorm:"not null" json:"title"`
	Stage       string        `gorm:"not null;default:incomplete" json:"stage"`
	Priority    string        `gorm:"not null;default:medium" json:"priority"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	CreatedBy   *snowflake.ID `json:"created_by,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Assignees []TaskAssignee `gorm:"foreignKey:TaskID" json:"assignees,omitempty"`
}

func (Task) TableName() string { return "tasks" }

// TaskAssignee links one user to one task.
type TaskAssignee struct {
	ID     snowflake.ID `gorm:"primaryKey" json:"id"`
	TaskID snowflake.ID `gorm:"not null;uniqueIndex:ux_task_assignee,priority:1" json:"task_id"`
	UserID snowflake.ID `gorm:"not null;uniqueIndex:ux_task_assignee,priority:2" json:"user_id"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (TaskAssignee) TableName() string { return "task_assignees" }

// Stages a task moves through.
const (
	StageIncomplete = "incomplete"
	StageDoing      = "doing"
	StageDone       = "done"
)

// ValidStage reports whether the stage is one of the fixed set.
func ValidStage(stage string) bool {
	switch stage {
	case StageIncomplete, StageDoing, StageDone:
		return true
	default:
		return false
	}
}
