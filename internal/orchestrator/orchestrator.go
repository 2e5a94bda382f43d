package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Stackmate/internal/compose"
	"github.com/shaiso/Stackmate/internal/fixtures"
	"github.com/shaiso/Stackmate/internal/stack"
	"github.com/shaiso/Stackmate/internal/telemetry"
)

// Default configuration values.
const (
	defaultGracePeriod  = 30 * time.Second
	defaultPollTimeout  = 60 * time.Second
	defaultProbeTimeout = 10 * time.Second
)

// Orchestrator поднимает фиксированный набор сервисов
// и доводит их до проверенного состояния.
type Orchestrator struct {
	runner compose.Runner
	specs  []stack.ServiceSpec

	fixturesWriter *fixtures.Writer

	gracePeriod  time.Duration
	pollTimeout  time.Duration
	probeTimeout time.Duration

	logger *slog.Logger
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Runner — управление docker compose.
	Runner compose.Runner

	// Specs — набор сервисов стека (default: stack.Default()).
	Specs []stack.ServiceSpec

	// FixturesWriter — запись fixture-файлов placeholder API.
	FixturesWriter *fixtures.Writer

	// GracePeriod — пауза перед первым опросом (default: 30s).
	GracePeriod time.Duration

	// PollTimeout — общий лимит опроса (default: 60s).
	PollTimeout time.Duration

	// ProbeTimeout — лимит одной проверки (default: 10s).
	ProbeTimeout time.Duration

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	specs := cfg.Specs
	if len(specs) == 0 {
		specs = stack.Default()
	}

	gracePeriod := cfg.GracePeriod
	if gracePeriod <= 0 {
		gracePeriod = defaultGracePeriod
	}

	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}

	probeTimeout := cfg.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		runner:         cfg.Runner,
		specs:          specs,
		fixturesWriter: cfg.FixturesWriter,
		gracePeriod:    gracePeriod,
		pollTimeout:    pollTimeout,
		probeTimeout:   probeTimeout,
		logger:         logger,
	}
}

// Bootstrap выполняет полную последовательность запуска стека.
//
// Возвращает классифицированные статусы всех сервисов. Ошибка
// возвращается только до запуска сервисов (runtime отсутствует,
// teardown или up не приняты): после этого любые проблемы —
// предупреждения.
func (o *Orchestrator) Bootstrap(ctx context.Context) ([]stack.ServiceStatus, error) {
	telemetry.BootstrapTotal.Inc()

	if err := o.runner.Available(ctx); err != nil {
		return nil, err
	}

	if err := o.EnsureCleanSlate(ctx); err != nil {
		return nil, err
	}

	if err := o.InstallFixtures(); err != nil {
		return nil, err
	}

	if err := o.StartAll(ctx); err != nil {
		return nil, err
	}

	statuses := o.WaitAndPoll(ctx)
	return statuses, nil
}

// EnsureCleanSlate останавливает стек, если какие-то сервисы уже
// запущены. Запущенный наполовину стек опаснее пустого: старые
// контейнеры держат порты.
//
// Идемпотентна: повторный вызов не видит запущенных сервисов
// и ничего не останавливает.
func (o *Orchestrator) EnsureCleanSlate(ctx context.Context) error {
	states, err := o.runner.Ps(ctx)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		o.logger.Debug("no running services, clean slate")
		return nil
	}

	o.logger.Info("existing services found, tearing down", "count", len(states))
	return o.runner.Down(ctx)
}

// StartAll запускает все сервисы.
// Возвращается когда runtime принял запрос, не дожидаясь health.
func (o *Orchestrator) StartAll(ctx context.Context) error {
	return o.runner.Up(ctx)
}

// InstallFixtures записывает статические ответы placeholder API.
func (o *Orchestrator) InstallFixtures() error {
	if o.fixturesWriter == nil {
		return nil
	}
	o.logger.Info("installing api fixtures")
	return o.fixturesWriter.WriteAll()
}

// WaitAndPoll ждёт grace period, затем параллельно классифицирует
// статус каждого сервиса.
//
// Результат тотален: каждый сервис из набора получает классификацию
// Healthy / Starting / Down, состояния "unknown" нет. Нездоровый
// сервис — предупреждение, а не ошибка: оператор разбирается по
// логам сам.
func (o *Orchestrator) WaitAndPoll(ctx context.Context) []stack.ServiceStatus {
	o.logger.Info("waiting for services to settle", "grace_period", o.gracePeriod)

	select {
	case <-ctx.Done():
		o.logger.Warn("wait interrupted", "error", ctx.Err())
	case <-time.After(o.gracePeriod):
	}

	pollCtx, cancel := context.WithTimeout(ctx, o.pollTimeout)
	defer cancel()

	// Один снимок compose ps на всех: статус каждого сервиса
	// классифицируется независимо.
	states, err := o.runner.Ps(pollCtx)
	if err != nil {
		o.logger.Warn("failed to query service states", "error", err)
		states = nil
	}

	byService := make(map[string]string, len(states))
	for _, st := range states {
		byService[st.Service] = st.Status
	}

	statuses := make([]stack.ServiceStatus, len(o.specs))

	// Fan-out: классификация и отчёт по каждому сервису независимы.
	// Отказ одной проверки не трогает остальные.
	var g errgroup.Group
	for idx, spec := range o.specs {
		idx, spec := idx, spec
		g.Go(func() error {
			start := time.Now()

			raw := byService[spec.Name]
			health := stack.Classify(raw)

			statuses[idx] = stack.ServiceStatus{
				Spec:   spec,
				Raw:    raw,
				Health: health,
			}

			telemetry.ObserveProbe(spec.Name, health.IsHealthy(), time.Since(start).Seconds())

			switch health {
			case stack.HealthHealthy:
				o.logger.Info("service healthy", "service", spec.Name, "status", raw)
			case stack.HealthStarting:
				o.logger.Warn("service still starting", "service", spec.Name, "status", raw)
			default:
				o.logger.Warn("service not healthy", "service", spec.Name, "status", raw)
			}
			return nil
		})
	}
	// Горутины не возвращают ошибок: ждём только завершения.
	_ = g.Wait()

	return statuses
}

// HealthyCount возвращает количество здоровых сервисов в статусах.
func HealthyCount(statuses []stack.ServiceStatus) int {
	var n int
	for _, s := range statuses {
		if s.Health.IsHealthy() {
			n++
		}
	}
	return n
}
