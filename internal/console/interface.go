// Package console prints suite progress and the final report in the familiar
// "name (Suite) ... ok" layout and turns an interrupt into a suite stop.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"wiki-ui-suite/internal/config"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/usecase"
	"wiki-ui-suite/pkg/logg"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	separator     = "======================================================================"
	thinSeparator = "----------------------------------------------------------------------"
)

type Interface struct {
	config  *config.Config
	logger  *zap.Logger
	usecase *usecase.Service
	out     io.Writer
	sigChan chan os.Signal

	mu       sync.Mutex
	stopping bool
}

type Params struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	Usecase *usecase.Service
	Out     io.Writer `name:"report_out" optional:"true"`
}

func NewInterface(params Params) *Interface {
	out := params.Out
	if out == nil {
		out = os.Stderr
	}

	return &Interface{
		config:  params.Config,
		logger:  params.Logger.With(zap.String(logg.Layer, "Console")),
		usecase: params.Usecase,
		out:     out,
		sigChan: make(chan os.Signal, 1),
	}
}

// Start runs the suite, printing each result as it lands, then prints the failure
// details and the summary line. The report is nil only when the suite could not start.
func (i *Interface) Start(ctx context.Context) (*entity.RunReport, error) {
	signal.Notify(i.sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(i.sigChan)

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-i.sigChan:
			fmt.Fprintln(i.out, "\nInterrupt received, stopping suite...")
			i.Stop()
		case <-done:
		}
	}()

	fmt.Fprintf(i.out, "Running Wikipedia UI suite on %s\n\n", i.config.BrowserConfig.Engine)

	report, err := i.usecase.Suite.Run(ctx, i.PrintResult)
	if err != nil {
		i.logger.Error("Suite run failed", zap.Error(err))
		fmt.Fprintf(i.out, "Suite could not run: %v\n", err)

		return nil, err
	}

	i.PrintReport(report)

	return report, nil
}

func (i *Interface) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.stopping {
		return
	}

	i.stopping = true
	i.logger.Info("Stopping suite...")

	i.usecase.Suite.Stop()
}

func (i *Interface) PrintResult(result entity.CaseResult) {
	fmt.Fprintf(i.out, "%s (%s) ... %s\n", result.Name, result.Suite, result.Status)
}

func (i *Interface) PrintReport(report *entity.RunReport) {
	for _, r := range report.Results {
		if r.Status != entity.CaseStatusFailed && r.Status != entity.CaseStatusError {
			continue
		}

		fmt.Fprintf(i.out, "\n%s\n%s: %s (%s)\n%s\n", separator, r.Status, r.Name, r.Suite, thinSeparator)

		for _, line := range r.Logs {
			fmt.Fprintln(i.out, line)
		}

		for _, f := range r.Failures {
			fmt.Fprintln(i.out, strings.TrimRight(f, "\n"))
		}
	}

	fmt.Fprintf(i.out, "\n%s\n%s\n", thinSeparator, report.Summary())
}
