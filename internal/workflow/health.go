package workflow

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Stackmate/internal/domain"
	"github.com/shaiso/Stackmate/internal/telemetry"
)

// proberFunc — одна именованная нативная проверка.
type proberFunc struct {
	name  string
	probe func(ctx context.Context) domain.ProbeResult
}

// HealthCheck выполняет нативные проверки всех хранилищ параллельно.
//
// Результат тотален по подключённым хранилищам. Каждая проверка
// ограничена timeout и не влияет на остальные. В отличие от
// эвристики статусов compose, здесь каждая проверка структурная:
// SELECT 1, admin ping, PING, ES Ping, AMQP liveness, API GET /health.
func (c *Client) HealthCheck(ctx context.Context, timeout time.Duration) map[string]domain.ProbeResult {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	probers := []proberFunc{
		{"postgres", c.users.Probe},
		{"mongodb", c.prefs.Probe},
		{"redis", c.sessions.Probe},
		{"elasticsearch", c.search.Probe},
	}
	if c.broker != nil {
		probers = append(probers, proberFunc{"rabbitmq", c.broker.Probe})
	}
	if c.api != nil {
		probers = append(probers, proberFunc{"api", c.api.Probe})
	}
	if c.archive != nil {
		probers = append(probers, proberFunc{"minio", c.archive.Probe})
	}

	results := make(map[string]domain.ProbeResult, len(probers))
	var mu sync.Mutex
	var g errgroup.Group

	for _, p := range probers {
		p := p
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			result := p.probe(probeCtx)
			telemetry.ObserveProbe(result.Name, result.OK, time.Since(start).Seconds())

			mu.Lock()
			results[p.name] = result
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return results
}
