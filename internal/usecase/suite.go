package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
	"wiki-ui-suite/internal/config"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/pages"
	"wiki-ui-suite/internal/ports"
	"wiki-ui-suite/pkg/apperr"
	"wiki-ui-suite/pkg/logg"
	"wiki-ui-suite/pkg/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	suiteServiceName = "SuiteService"
	suiteTracer      = "usecase.suite"
	sessionCloseWait = 10 * time.Second
)

// SuiteService runs cases one after another, each in its own browser session.
type SuiteService struct {
	config  *config.Config
	logger  *zap.Logger
	browser ports.SessionFactory
	cases   []Case
	tracer  trace.Tracer
	now     func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
}

type SuiteServiceParams struct {
	Config  *config.Config
	Logger  *zap.Logger
	Browser ports.SessionFactory
	Cases   []Case
	Now     func() time.Time
}

func NewSuiteService(params SuiteServiceParams) *SuiteService {
	now := params.Now
	if now == nil {
		now = time.Now
	}

	return &SuiteService{
		config:  params.Config,
		logger:  params.Logger.With(zap.String(logg.Layer, suiteServiceName)),
		browser: params.Browser,
		cases:   params.Cases,
		tracer:  otel.Tracer(suiteTracer),
		now:     now,
	}
}

// Selected returns the cases whose full name contains the configured filter.
func (s *SuiteService) Selected() []Case {
	filter := strings.ToLower(s.config.SuiteConfig.Filter)
	if filter == "" {
		return s.cases
	}

	selected := make([]Case, 0, len(s.cases))

	for _, c := range s.cases {
		if strings.Contains(strings.ToLower(c.FullName()), filter) {
			selected = append(selected, c)
		}
	}

	return selected
}

// Run executes the selected cases in order and reports each result to progress as it
// completes. Cases not started when ctx ends or Stop is called are left out of the report.
func (s *SuiteService) Run(ctx context.Context, progress func(entity.CaseResult)) (report *entity.RunReport, err error) {
	const op = "Run"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("engine", string(s.config.BrowserConfig.Engine)))
	defer func() {
		step.End(err)
	}()

	if !s.browser.IsReady() {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	seed := s.config.SuiteConfig.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	report = &entity.RunReport{
		ID:        uuid.New(),
		Engine:    s.config.BrowserConfig.Engine,
		StartedAt: time.Now(),
		Results:   make([]entity.CaseResult, 0, len(s.cases)),
	}

	cases := s.Selected()

	logger = logger.With(zap.String(logg.RunID, report.ID.String()))
	logger.Info("Starting suite", zap.Int("cases", len(cases)), zap.Int64("seed", seed))
	step.SetAttributes(attribute.Int("cases", len(cases)), attribute.Int64("seed", seed))

	for i, c := range cases {
		if ctx.Err() != nil {
			logger.Warn("Suite interrupted", zap.Int("remaining", len(cases)-i))

			break
		}

		result := s.runCase(ctx, c, rand.New(rand.NewPCG(uint64(seed), uint64(i))))
		report.Results = append(report.Results, result)

		if progress != nil {
			progress(result)
		}
	}

	report.FinishedAt = time.Now()

	logger.Info("Suite finished",
		zap.Int("passed", report.Count(entity.CaseStatusPassed)),
		zap.Int("failed", report.Count(entity.CaseStatusFailed)),
		zap.Int("errors", report.Count(entity.CaseStatusError)))

	return report, nil
}

// Stop cancels a running suite; the case in flight is abandoned.
func (s *SuiteService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
}

func (s *SuiteService) runCase(ctx context.Context, c Case, rnd *rand.Rand) (result entity.CaseResult) {
	const op = "runCase"

	result = entity.CaseResult{ID: uuid.New(), Suite: c.Suite, Name: c.Name}
	logger := s.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.Case, c.FullName()),
		zap.String(logg.CaseID, result.ID.String()),
	)

	started := time.Now()

	caseCtx, cancel := context.WithTimeout(ctx, s.config.SuiteConfig.CaseTimeout)
	defer cancel()

	caseCtx, step := tracing.StartSpan(caseCtx, s.tracer, logger, c.FullName())
	defer func() {
		result.Duration = time.Since(started)

		var err error
		if result.Status == entity.CaseStatusError || result.Status == entity.CaseStatusFailed {
			err = fmt.Errorf("%s: %s", result.Status, strings.Join(result.Failures, "; "))
		}

		step.SetAttributes(attribute.String("status", string(result.Status)))
		step.End(err)
	}()

	session, err := s.browser.NewSession(caseCtx)
	if err != nil {
		logger.Error("Failed to open session", zap.Error(err))

		result.Status = entity.CaseStatusError
		result.Failures = []string{err.Error()}

		return result
	}

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), sessionCloseWait)
		defer cancel()

		if err := session.Close(closeCtx); err != nil {
			logger.Warn("Failed to close session", zap.Error(err))
		}
	}()

	t := newT(c.FullName(), logger)
	env := CaseEnv{
		Env:  pages.Env{Driver: session, Config: s.config, Logger: logger},
		Now:  s.now(),
		Rand: rnd,
	}

	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				t.record(entity.CaseStatusError, fmt.Sprintf("panic: %v", r))
			}
		}()

		c.Run(caseCtx, t, env)
	}()

	select {
	case <-done:
	case <-caseCtx.Done():
		reason := "case timed out after " + s.config.SuiteConfig.CaseTimeout.String()
		if ctx.Err() != nil {
			reason = "suite stopped"
		}

		t.record(entity.CaseStatusError, reason)
		logger.Warn("Case abandoned", zap.String("reason", reason))
	}

	result.Status, result.Failures, result.Logs = t.seal()

	logger.Info("Case finished", zap.String("status", string(result.Status)), zap.Duration(logg.Elapsed, time.Since(started)))

	return result
}
