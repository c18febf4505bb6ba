package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"strings"
	"sync"
	"time"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/pages"

	"go.uber.org/zap"
)

// Case is one regression test. Run drives pages through env and reports through t.
type Case struct {
	Suite string
	Name  string
	Run   func(ctx context.Context, t *T, env CaseEnv)
}

func (c Case) FullName() string {
	return c.Suite + "." + c.Name
}

// CaseEnv is everything a case gets besides its T: the page environment bound to the
// case's own browser session, the run clock and a seeded random source.
type CaseEnv struct {
	pages.Env

	Now  time.Time
	Rand *rand.Rand
}

// T is the handle a case reports through. It satisfies testify's require.TestingT, so
// cases assert with assert and require exactly as unit tests do. FailNow and Must end
// the case's goroutine.
type T struct {
	name   string
	logger *zap.Logger

	mu       sync.Mutex
	status   entity.CaseStatus
	failures []string
	logs     []string
	sealed   bool
}

func newT(name string, logger *zap.Logger) *T {
	return &T{name: name, logger: logger, status: entity.CaseStatusPassed}
}

func (t *T) Name() string {
	return t.name
}

func (t *T) Helper() {}

// Errorf records an assertion failure and lets the case continue.
func (t *T) Errorf(format string, args ...any) {
	t.record(entity.CaseStatusFailed, fmt.Sprintf(format, args...))
}

func (t *T) FailNow() {
	t.mu.Lock()
	if t.status == entity.CaseStatusPassed {
		t.status = entity.CaseStatusFailed
	}
	t.mu.Unlock()

	runtime.Goexit()
}

// Must ends the case as an error, as opposed to a failed assertion, when err is set.
func (t *T) Must(err error) {
	if err == nil {
		return
	}

	t.record(entity.CaseStatusError, err.Error())
	runtime.Goexit()
}

func (t *T) Skip(reason string) {
	t.mu.Lock()
	if !t.sealed && t.status == entity.CaseStatusPassed {
		t.status = entity.CaseStatusSkipped
		t.logs = append(t.logs, "skipped: "+reason)
	}
	t.mu.Unlock()

	runtime.Goexit()
}

func (t *T) Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	t.mu.Lock()
	if !t.sealed {
		t.logs = append(t.logs, msg)
	}
	t.mu.Unlock()

	t.logger.Debug(msg)
}

func (t *T) Failed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.status == entity.CaseStatusFailed || t.status == entity.CaseStatusError
}

// record keeps the worst status seen: an error outranks a failure.
func (t *T) record(status entity.CaseStatus, msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sealed {
		return
	}

	t.failures = append(t.failures, strings.TrimSpace(msg))

	if status == entity.CaseStatusError || t.status != entity.CaseStatusError {
		t.status = status
	}
}

// seal freezes the outcome. A case abandoned on timeout may still be running; nothing
// it reports afterwards is kept.
func (t *T) seal() (entity.CaseStatus, []string, []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sealed = true

	return t.status, append([]string(nil), t.failures...), append([]string(nil), t.logs...)
}
