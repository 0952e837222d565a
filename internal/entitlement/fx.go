package entitlement

import (
	"github.com/smallbiznis/taskora/internal/entitlement/domain"
	"github.com/smallbiznis/taskora/internal/entitlement/service"
	"go.uber.org/fx"
)

var Module = fx.Module("entitlement",
	fx.Provide(
		service.New,
		func(s *service.Service) domain.Service { return s },
	),
)
