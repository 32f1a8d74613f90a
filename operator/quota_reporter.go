package operator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/necaris/k8s-eip-operator/cloud"
	"github.com/necaris/k8s-eip-operator/metrics"
	"github.com/necaris/k8s-eip-operator/refresh"
)

// QuotaReporter polls EIP quota utilization and keeps the gauges current.
// The fetcher backs off while nothing changes and snaps back to fast polls
// the moment an allocation or a quota bump lands.
type QuotaReporter struct {
	Cloud       Cloud
	Logger      *zap.Logger
	MinInterval time.Duration
	MaxInterval time.Duration
}

// Start launches the reporter; it stops with the context.
func (q *QuotaReporter) Start(ctx context.Context) {
	fetcher := refresh.NewFetcher[cloud.QuotaStatus](q.Cloud.QuotaStatus, q.MinInterval, q.MaxInterval, q.report, q.Logger)
	fetcher.Start(ctx)
}

func (q *QuotaReporter) report(status cloud.QuotaStatus) error {
	metrics.EipsAllocated.Set(float64(status.Allocated))
	metrics.EipQuota.Set(status.Quota)

	fields := []zap.Field{
		zap.Int("allocated", status.Allocated),
		zap.Float64("quota", status.Quota),
	}
	if status.Exhausted() {
		q.Logger.Warn("eip quota exhausted", fields...)
	} else {
		q.Logger.Info("eip quota status", fields...)
	}
	return nil
}
