// Package metrics holds the operator's prometheus collectors. Everything is
// registered on the controller-runtime registry so the manager's metrics
// endpoint and the local debug server expose one consistent set.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// EipsAllocated is the number of EC2 addresses currently allocated in
	// the account/region, as last observed by the quota reporter.
	EipsAllocated = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "eip_operator_eips_allocated",
		Help: "Number of EC2 Elastic IP addresses currently allocated.",
	})

	// EipQuota is the EC2 EIPs-per-region service quota value.
	EipQuota = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "eip_operator_eip_quota",
		Help: "EC2 service quota for Elastic IP addresses in this region.",
	})

	// ReconcileErrors counts reconcile failures per controller.
	ReconcileErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "eip_operator_reconcile_errors_total",
		Help: "Number of failed reconciliations, partitioned by controller.",
	}, []string{"controller"})

	// OrphansReleased counts addresses released by the orphan sweeper.
	OrphansReleased = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "eip_operator_orphan_eips_released_total",
		Help: "Number of orphaned Elastic IP addresses released.",
	})

	// AWSRequestDuration observes EC2/Service Quotas call latency.
	AWSRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eip_operator_aws_request_duration_seconds",
		Help:    "Latency of AWS API calls made by the operator.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})
)

func init() {
	ctrlmetrics.Registry.MustRegister(
		EipsAllocated,
		EipQuota,
		ReconcileErrors,
		OrphansReleased,
		AWSRequestDuration,
	)
}

// ObserveAWSRequest records one AWS API call.
func ObserveAWSRequest(operation string, err error, start time.Time) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	AWSRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(start).Seconds())
}
