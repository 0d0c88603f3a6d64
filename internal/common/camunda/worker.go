// internal/common/camunda/worker.go
package camunda

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.opentelemetry.io/otel/attribute"

	"collegeequity-workers/internal/common/config"
	"collegeequity-workers/internal/common/errors"
	"collegeequity-workers/internal/common/logger"
	"collegeequity-workers/internal/common/observability"
)

// Manager opens job workers and closes them together on shutdown.
type Manager struct {
	client zbc.Client
	obs    *observability.Observability
	logger logger.Logger

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewManager(client zbc.Client, obs *observability.Observability, log logger.Logger) *Manager {
	return &Manager{
		client:  client,
		obs:     obs,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// Start opens a worker for taskType unless it is disabled in wcfg.
func (m *Manager) Start(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) {
	if !wcfg.Enabled {
		m.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workers[taskType]; ok {
		m.logger.Warn("worker already started", map[string]interface{}{"taskType": taskType})
		return
	}

	jw := m.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, m.obs, m.logger, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()
	m.workers[taskType] = jw

	m.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
}

// Started lists the task types with an open worker.
func (m *Manager) Started() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.workers))
	for t := range m.workers {
		out = append(out, t)
	}
	return out
}

// Stop closes every worker and waits for in-flight jobs, bounded by ctx.
func (m *Manager) Stop(ctx context.Context) {
	m.mu.Lock()
	workers := m.workers
	m.workers = make(map[string]worker.JobWorker)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for taskType, jw := range workers {
		wg.Add(1)
		go func(taskType string, jw worker.JobWorker) {
			defer wg.Done()
			jw.Close()
			jw.AwaitClose()
			m.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
		}(taskType, jw)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("worker shutdown timed out", map[string]interface{}{"error": ctx.Err().Error()})
	}
}

// Instrument wraps a job handler with a span, otel job metrics and panic recovery.
// A panicking handler fails the job as INTERNAL_ERROR instead of crashing the process.
func Instrument(taskType string, obs *observability.Observability, log logger.Logger, next worker.JobHandler) worker.JobHandler {
	errHandler := errors.NewErrorHandler(log)

	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		ctx, span := obs.StartSpan(context.Background(), "job "+taskType,
			attribute.String("job.type", taskType),
			attribute.Int64("job.key", job.Key),
			attribute.Int64("job.process_instance_key", job.ProcessInstanceKey),
		)

		status := "handled"
		var panicErr error
		defer func() {
			if r := recover(); r != nil {
				status = "panic"
				panicErr = fmt.Errorf("handler panic: %v", r)
				log.Error("job handler panicked", map[string]interface{}{
					"taskType": taskType,
					"jobKey":   job.Key,
					"panic":    fmt.Sprint(r),
				})
				if client != nil {
					errHandler.HandleJobError(ctx, client, job, errors.NewInternalError(panicErr))
				}
			}
			obs.RecordJobProcessed(ctx, status)
			obs.RecordJobDuration(ctx, time.Since(start), status)
			observability.EndSpan(span, panicErr)
		}()

		next(client, job)
	}
}
