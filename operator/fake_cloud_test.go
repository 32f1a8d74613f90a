package operator

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/necaris/k8s-eip-operator/cloud"
)

// fakeCloud implements Cloud with overridable behavior per call. Counters
// record how often the reconcilers hit AWS.
type fakeCloud struct {
	mu sync.Mutex

	ensureFn      func(ctx context.Context, id cloud.AddressIdentity) (string, string, error)
	byUIDFn       func(ctx context.Context, uid string) ([]types.Address, error)
	clusterFn     func(ctx context.Context, namespace string) ([]types.Address, error)
	addressFn     func(ctx context.Context, allocationID string) (types.Address, error)
	eniByIPFn     func(ctx context.Context, instanceID, privateIP string) (string, error)
	primaryENIFn  func(ctx context.Context, instanceID string) (string, string, error)
	quotaStatusFn func(ctx context.Context) (cloud.QuotaStatus, error)

	associateErr error

	ensureCalls    int
	associateCalls int
	disassociated  []string
	released       []types.Address
	eniLookups     int
}

var _ Cloud = &fakeCloud{}

func (f *fakeCloud) EnsureAddress(ctx context.Context, id cloud.AddressIdentity) (string, string, error) {
	f.mu.Lock()
	f.ensureCalls++
	f.mu.Unlock()
	if f.ensureFn != nil {
		return f.ensureFn(ctx, id)
	}
	return "eipalloc-test", "54.0.0.1", nil
}

func (f *fakeCloud) AddressesByUID(ctx context.Context, uid string) ([]types.Address, error) {
	if f.byUIDFn != nil {
		return f.byUIDFn(ctx, uid)
	}
	return nil, nil
}

func (f *fakeCloud) ClusterAddresses(ctx context.Context, namespace string) ([]types.Address, error) {
	if f.clusterFn != nil {
		return f.clusterFn(ctx, namespace)
	}
	return nil, nil
}

func (f *fakeCloud) Address(ctx context.Context, allocationID string) (types.Address, error) {
	if f.addressFn != nil {
		return f.addressFn(ctx, allocationID)
	}
	return types.Address{}, nil
}

func (f *fakeCloud) Associate(_ context.Context, _, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.associateCalls++
	return f.associateErr
}

func (f *fakeCloud) Disassociate(_ context.Context, associationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disassociated = append(f.disassociated, associationID)
	return nil
}

func (f *fakeCloud) DisassociateAndRelease(_ context.Context, address types.Address) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released = append(f.released, address)
	return nil
}

func (f *fakeCloud) ENIByPrivateIP(ctx context.Context, instanceID, privateIP string) (string, error) {
	f.mu.Lock()
	f.eniLookups++
	f.mu.Unlock()
	if f.eniByIPFn != nil {
		return f.eniByIPFn(ctx, instanceID, privateIP)
	}
	return "eni-test", nil
}

func (f *fakeCloud) PrimaryENI(ctx context.Context, instanceID string) (string, string, error) {
	if f.primaryENIFn != nil {
		return f.primaryENIFn(ctx, instanceID)
	}
	return "eni-primary", "10.0.0.10", nil
}

func (f *fakeCloud) QuotaStatus(ctx context.Context) (cloud.QuotaStatus, error) {
	if f.quotaStatusFn != nil {
		return f.quotaStatusFn(ctx)
	}
	return cloud.QuotaStatus{Quota: 5, Allocated: 1}, nil
}
