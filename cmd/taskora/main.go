package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/taskora/internal/clock"
	"github.com/smallbiznis/taskora/internal/config"
	"github.com/smallbiznis/taskora/internal/entitlement"
	"github.com/smallbiznis/taskora/internal/events"
	"github.com/smallbiznis/taskora/internal/listeners"
	"github.com/smallbiznis/taskora/internal/migration"
	"github.com/smallbiznis/taskora/internal/notification"
	"github.com/smallbiznis/taskora/internal/notification/adapter"
	"github.com/smallbiznis/taskora/internal/observability"
	"github.com/smallbiznis/taskora/internal/providers"
	"github.com/smallbiznis/taskora/internal/ratelimit"
	"github.com/smallbiznis/taskora/internal/scheduler"
	"github.com/smallbiznis/taskora/internal/server"
	"github.com/smallbiznis/taskora/internal/task"
	"github.com/smallbiznis/taskora/internal/workspace"
	"github.com/smallbiznis/taskora/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Domains
		workspace.Module,
		notification.Module,
		entitlement.Module,
		task.Module,

		// Delivery pipeline
		providers.Module,
		ratelimit.Module,
		adapter.Module,
		events.Module,
		listeners.Module,

		// Surfaces
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
