package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/events"
)

// CreateInput is the request to create a task.
type CreateInput struct {
	WorkspaceID snowflake.ID
	ProjectID   snowflake.ID
	Title       string
	Priority    string
	DueDate     *time.Time
	ActorID     *snowflake.ID
}

// Service persists tasks and publishes their events after commit. The
// returned report carries per-channel delivery outcomes for the request
// layer to surface.
type Service interface {
	Create(ctx context.Context, in CreateInput) (*Task, *events.Report, error)
	Assign(ctx context.Context, taskID snowflake.ID, assigneeIDs []snowflake.ID, actorID *snowflake.ID) (*Task, *events.Report, error)
	UpdateStage(ctx context.Context, taskID snowflake.ID, stage string, actorID *snowflake.ID) (*Task, *events.Report, error)
	Get(ctx context.Context, taskID snowflake.ID) (*Task, error)
	List(ctx context.Context, workspaceID snowflake.ID) ([]Task, error)
}

var (
	ErrNotFound     = errors.New("task_not_found")
	ErrInvalidTitle = errors.New("invalid_title")
	ErrInvalidStage = errors.New("invalid_stage")
	ErrNoAssignees  = errors.New("no_assignees")
)
