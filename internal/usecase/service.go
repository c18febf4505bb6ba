package usecase

import (
	"wiki-ui-suite/internal/config"
	"wiki-ui-suite/internal/ports"
	"wiki-ui-suite/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Suite   adapters.SuiteService
	Browser adapters.BrowserService
}

type Params struct {
	fx.In

	Logger  *zap.Logger
	Config  *config.Config
	Browser ports.SessionFactory
	Cases   []Case
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Suite:   factory.CreateSuiteService(),
		Browser: factory.CreateBrowserService(),
	}
}
