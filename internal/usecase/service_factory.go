package usecase

import (
	"wiki-ui-suite/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateSuiteService() adapters.SuiteService {
	return NewSuiteService(SuiteServiceParams{
		Config:  f.deps.Config,
		Logger:  f.deps.Logger,
		Browser: f.deps.Browser,
		Cases:   f.deps.Cases,
	})
}

func (f *serviceFactory) CreateBrowserService() adapters.BrowserService {
	return f.deps.Browser
}
