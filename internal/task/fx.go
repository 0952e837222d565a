package task

import (
	"github.com/smallbiznis/taskora/internal/task/domain"
	"github.com/smallbiznis/taskora/internal/task/repository"
	"github.com/smallbiznis/taskora/internal/task/service"
	"go.uber.org/fx"
)

var Module = fx.Module("task",
	fx.Provide(
		repository.Provide,
		service.New,
		func(s *service.Service) domain.Service { return s },
	),
)
