package bootstrap

import (
	"context"
	"wiki-ui-suite/internal/console"
	"wiki-ui-suite/internal/usecase"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	exitPassed = 0
	exitFailed = 1
)

func runSuite(lc fx.Lifecycle, shutdowner fx.Shutdowner, consoleInterface *console.Interface, service *usecase.Service, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Launching browser...")

			if err := service.Browser.Launch(ctx); err != nil {
				logger.Error("Failed to launch browser", zap.Error(err))

				return err
			}

			logger.Info("Browser launched successfully")

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down suite...")

			consoleInterface.Stop()
			cancel()

			select {
			case <-done:
			case <-ctx.Done():
				logger.Warn("Suite did not finish before shutdown deadline")
			}

			if err := service.Browser.Close(ctx); err != nil {
				logger.Error("Failed to close browser", zap.Error(err))
			}

			return nil
		},
	})

	lc.Append(fx.StartHook(func() {
		go func() {
			defer close(done)

			code := exitFailed

			report, err := consoleInterface.Start(ctx)
			if err == nil && report.Passed() {
				code = exitPassed
			}

			if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
				logger.Error("Failed to shut down", zap.Error(err))
			}
		}()
	}))
}
