package bootstrap

import (
	"time"
	"wiki-ui-suite/internal/browser"
	"wiki-ui-suite/internal/config"
	"wiki-ui-suite/internal/console"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/scenarios"
	"wiki-ui-suite/internal/usecase"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewApp wires the suite for one browser engine. Running the app runs the suite once
// and shuts down with exit code 0 when every case passed and 1 otherwise.
func NewApp(engine entity.Engine) *fx.App {
	return fx.New(
		fx.Supply(engine),

		fx.Provide(
			config.Load,
			newLogger,

			browser.NewSessionFactory,
			scenarios.All,

			usecase.NewUsecase,

			console.NewInterface,
		),

		fx.Invoke(
			installTracing,
			runSuite,
		),

		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.StartTimeout(2*time.Minute),
	)
}
