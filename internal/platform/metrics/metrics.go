package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	webhookRejected uint64
	batchesExecuted uint64
	totalDurationMs uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordWebhookRejected counts webhook requests dropped for a bad signature
// or a stale timestamp.
func (c *Collector) RecordWebhookRejected() {
	atomic.AddUint64(&c.webhookRejected, 1)
}

func (c *Collector) RecordBatchExecuted() {
	atomic.AddUint64(&c.batchesExecuted, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	rejected := atomic.LoadUint64(&c.webhookRejected)
	executed := atomic.LoadUint64(&c.batchesExecuted)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":         total,
		"errorsTotal":           errs,
		"rateLimitedTotal":      limited,
		"webhooksRejectedTotal": rejected,
		"batchesExecutedTotal":  executed,
		"avgDurationMs":         avg,
		"totalDurationMs":       totalMs,
	}
}
