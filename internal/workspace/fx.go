package workspace

import (
	"github.com/smallbiznis/taskora/internal/workspace/domain"
	"github.com/smallbiznis/taskora/internal/workspace/repository"
	"github.com/smallbiznis/taskora/internal/workspace/service"
	"go.uber.org/fx"
)

var Module = fx.Module("workspace.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(func(s *service.Service) domain.Service { return s }),
	fx.Provide(func(s *service.Service) domain.Resolver { return s }),
)
