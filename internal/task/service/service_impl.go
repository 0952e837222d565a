package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/events"
	"github.com/smallbiznis/taskora/internal/task/domain"
	workspacedomain "github.com/smallbiznis/taskora/internal/workspace/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Node  *snowflake.Node
	Repo  domain.Repository
	Bus   *events.Bus
	Users workspacedomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	node  *snowflake.Node
	repo  domain.Repository
	bus   *events.Bus
	users workspacedomain.Service
}

func New(p Params) *Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("task"),
		node:  p.Node,
		repo:  p.Repo,
		bus:   p.Bus,
		users: p.Users,
	}
}

var _ domain.Service = (*Service)(nil)

// Create persists the task, then publishes TaskCreated. The publish runs
// after the transaction commits so listeners never observe uncommitted
// state.
func (s *Service) Create(ctx context.Context, in domain.CreateInput) (*domain.Task, *events.Report, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, nil, domain.ErrInvalidTitle
	}

	task := &domain.Task{
		ID:          s.node.Generate(),
		WorkspaceID: in.WorkspaceID,
		ProjectID:   in.ProjectID,
		Title:       title,
		Stage:       domain.StageIncomplete,
		Priority:    priorityOrDefault(in.Priority),
		DueDate:     in.DueDate,
		CreatedBy:   in.ActorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.Insert(ctx, tx, task)
	})
	if err != nil {
		return nil, nil, err
	}

	report := s.bus.Publish(ctx, events.New(s.node, events.TaskCreated, task.WorkspaceID, in.ActorID,
		events.TaskCreatedPayload{Task: s.snapshot(task)},
	))
	return task, report, nil
}

// Assign links the users to the task and publishes TaskAssigned with a
// snapshot of each assignee, so listeners need no further lookups.
func (s *Service) Assign(ctx context.Context, taskID snowflake.ID, assigneeIDs []snowflake.ID, actorID *snowflake.ID) (*domain.Task, *events.Report, error) {
	if len(assigneeIDs) == 0 {
		return nil, nil, domain.ErrNoAssignees
	}

	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	assignees := make([]domain.TaskAssignee, 0, len(assigneeIDs))
	snapshots := make([]events.UserInfo, 0, len(assigneeIDs))
	for _, userID := range assigneeIDs {
		u, err := s.users.GetUser(ctx, userID)
		if err != nil {
			return nil, nil, err
		}
		assignees = append(assignees, domain.TaskAssignee{
			ID:     s.node.Generate(),
			TaskID: task.ID,
			UserID: u.ID,
		})
		snapshots = append(snapshots, events.UserInfo{
			ID:          u.ID,
			WorkspaceID: u.WorkspaceID,
			Email:       u.Email,
			Name:        u.Name,
			Lang:        u.Lang,
			UpdatedAt:   u.UpdatedAt,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.AddAssignees(ctx, tx, assignees)
	})
	if err != nil {
		return nil, nil, err
	}

	report := s.bus.Publish(ctx, events.New(s.node, events.TaskAssigned, task.WorkspaceID, actorID,
		events.TaskAssignedPayload{
			Task:       s.snapshot(task),
			Assignees:  snapshots,
			AssignedBy: actorID,
		},
	))
	return task, report, nil
}

// UpdateStage moves the task and publishes TaskStageUpdated with the delta.
func (s *Service) UpdateStage(ctx context.Context, taskID snowflake.ID, stage string, actorID *snowflake.ID) (*domain.Task, *events.Report, error) {
	if !domain.ValidStage(stage) {
		return nil, nil, domain.ErrInvalidStage
	}

	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	oldStage := task.Stage
	if oldStage == stage {
		return task, &events.Report{}, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.repo.UpdateStage(ctx, tx, task.ID, stage)
	})
	if err != nil {
		return nil, nil, err
	}
	task.Stage = stage

	report := s.bus.Publish(ctx, events.New(s.node, events.TaskStageUpdated, task.WorkspaceID, actorID,
		events.TaskStageUpdatedPayload{
			Task:     s.snapshot(task),
			OldStage: oldStage,
			NewStage: stage,
		},
	))
	return task, report, nil
}

func (s *Service) Get(ctx context.Context, taskID snowflake.ID) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, s.db, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) List(ctx context.Context, workspaceID snowflake.ID) ([]domain.Task, error) {
	return s.repo.ListByWorkspace(ctx, s.db, workspaceID)
}

func (s *Service) snapshot(task *domain.Task) events.Task {
	snap := events.Task{
		ID:          task.ID,
		WorkspaceID: task.WorkspaceID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Stage:       task.Stage,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CreatedBy:   task.CreatedBy,
	}
	for _, a := range task.Assignees {
		snap.AssigneeIDs = append(snap.AssigneeIDs, a.UserID)
	}
	return snap
}

func priorityOrDefault(priority string) string {
	switch priority {
	case "low", "medium", "high", "urgent":
		return priority
	default:
		return "medium"
	}
}
