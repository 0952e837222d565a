package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Service exposes user lookups for the request layer.
type Service interface {
	GetUser(ctx context.Context, id snowflake.ID) (*User, error)
	GetWorkspace(ctx context.Context, id snowflake.ID) (*Workspace, error)
	CountUsers(ctx context.Context, workspaceID snowflake.ID) (int64, error)
}

// Resolver implements the tenant-owner fallback rule: prefer the acting
// user's company owner, fall back to the configured default owner, then the
// superadmin. Notifications are skippable, so resolution failure is a
// boolean, never an error.
type Resolver interface {
	ResolveOwner(ctx context.Context, actorID *snowflake.ID) (snowflake.ID, bool)
}

var (
	ErrNotFound     = errors.New("not_found")
	ErrInvalidID    = errors.New("invalid_id")
	ErrInvalidEmail = errors.New("invalid_email")
)
