package operator

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/necaris/k8s-eip-operator/cloud"
	eipv1alpha1 "github.com/necaris/k8s-eip-operator/crd/eip/api/v1alpha1"
	"github.com/necaris/k8s-eip-operator/metrics"
	"github.com/necaris/k8s-eip-operator/refresh"
)

// Sweeper releases cluster-tagged EC2 addresses whose Eip resource no
// longer exists. Crash windows between AllocateAddress and the status
// patch, or deletions that skipped the finalizer, leave these behind.
type Sweeper struct {
	Reader    ctrlclient.Reader
	Cloud     Cloud
	Logger    *zap.Logger
	Namespace string
	Period    time.Duration
}

// SweepResult is one sweep observation. The refresh fetcher compares
// successive results to back off when nothing is being released.
type SweepResult struct {
	Scanned  int
	Released int
}

func (s SweepResult) Equal(other SweepResult) bool {
	return s == other
}

// Start runs a sweep immediately and then on the fetcher's adaptive
// interval. Sweep failures are logged, never fatal.
func (s *Sweeper) Start(ctx context.Context) {
	fetcher := refresh.NewFetcher[SweepResult](s.Sweep, s.Period, 4*s.Period, nil, s.Logger)
	fetcher.Start(ctx)
}

// Sweep performs one pass over the cluster's tagged addresses.
func (s *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	runID := uuid.NewString()
	logger := s.Logger.With(zap.String("sweepRun", runID))

	addresses, err := s.Cloud.ClusterAddresses(ctx, s.Namespace)
	if err != nil {
		return SweepResult{}, err
	}

	known, err := s.knownUIDs(ctx)
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Scanned: len(addresses)}
	for _, address := range addresses {
		if s.isOrphan(address, known, logger) {
			if err := s.Cloud.DisassociateAndRelease(ctx, address); err != nil {
				return result, err
			}
			metrics.OrphansReleased.Inc()
			result.Released++
		}
	}
	if result.Released > 0 {
		logger.Warn("released orphaned addresses",
			zap.Int("scanned", result.Scanned),
			zap.Int("released", result.Released))
	}
	return result, nil
}

func (s *Sweeper) knownUIDs(ctx context.Context) (map[string]struct{}, error) {
	var opts []ctrlclient.ListOption
	if s.Namespace != "" {
		opts = append(opts, ctrlclient.InNamespace(s.Namespace))
	}
	eips := &eipv1alpha1.EipList{}
	if err := s.Reader.List(ctx, eips, opts...); err != nil {
		return nil, errors.Wrap(err, "listing eips")
	}
	known := make(map[string]struct{}, len(eips.Items))
	for i := range eips.Items {
		known[string(eips.Items[i].UID)] = struct{}{}
	}
	return known, nil
}

func (s *Sweeper) isOrphan(address types.Address, known map[string]struct{}, logger *zap.Logger) bool {
	uid, ok := cloud.GetTag(address, cloud.TagEipUID)
	if !ok {
		logger.Warn("address carries cluster tag but no uid tag",
			zap.String("allocationID", aws.ToString(address.AllocationId)))
		return true
	}
	if _, found := known[uid]; !found {
		logger.Warn("address references a deleted eip",
			zap.String("allocationID", aws.ToString(address.AllocationId)),
			zap.String("eipUID", uid))
		return true
	}
	return false
}
