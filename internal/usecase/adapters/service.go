package adapters

import (
	"context"
	"wiki-ui-suite/internal/entity"
)

type BrowserService interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	IsReady() bool
}

type SuiteService interface {
	Run(ctx context.Context, progress func(entity.CaseResult)) (*entity.RunReport, error)
	Stop()
}
