package notification

import (
	"github.com/smallbiznis/taskora/internal/notification/domain"
	"github.com/smallbiznis/taskora/internal/notification/repository"
	"github.com/smallbiznis/taskora/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification",
	fx.Provide(
		repository.Provide,
		service.New,
		func(s *service.Service) domain.Service { return s },
		func(s *service.Service) domain.Resolver { return s },
	),
)
