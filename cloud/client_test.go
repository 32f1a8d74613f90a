package cloud

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/servicequotas"
)

// fakeEC2 implements EC2API with overridable call functions and call
// counters.
type fakeEC2 struct {
	allocateFn     func(*ec2.AllocateAddressInput) (*ec2.AllocateAddressOutput, error)
	describeFn     func(*ec2.DescribeAddressesInput) (*ec2.DescribeAddressesOutput, error)
	associateFn    func(*ec2.AssociateAddressInput) (*ec2.AssociateAddressOutput, error)
	disassociateFn func(*ec2.DisassociateAddressInput) (*ec2.DisassociateAddressOutput, error)
	releaseFn      func(*ec2.ReleaseAddressInput) (*ec2.ReleaseAddressOutput, error)
	instancesFn    func(*ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error)

	allocateCalls     int
	associateCalls    int
	disassociateCalls int
	releaseCalls      int
	instancesCalls    int
}

func (f *fakeEC2) AllocateAddress(_ context.Context, in *ec2.AllocateAddressInput, _ ...func(*ec2.Options)) (*ec2.AllocateAddressOutput, error) {
	f.allocateCalls++
	if f.allocateFn == nil {
		return &ec2.AllocateAddressOutput{}, nil
	}
	return f.allocateFn(in)
}

func (f *fakeEC2) DescribeAddresses(_ context.Context, in *ec2.DescribeAddressesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
	if f.describeFn == nil {
		return &ec2.DescribeAddressesOutput{}, nil
	}
	return f.describeFn(in)
}

func (f *fakeEC2) AssociateAddress(_ context.Context, in *ec2.AssociateAddressInput, _ ...func(*ec2.Options)) (*ec2.AssociateAddressOutput, error) {
	f.associateCalls++
	if f.associateFn == nil {
		return &ec2.AssociateAddressOutput{}, nil
	}
	return f.associateFn(in)
}

func (f *fakeEC2) DisassociateAddress(_ context.Context, in *ec2.DisassociateAddressInput, _ ...func(*ec2.Options)) (*ec2.DisassociateAddressOutput, error) {
	f.disassociateCalls++
	if f.disassociateFn == nil {
		return &ec2.DisassociateAddressOutput{}, nil
	}
	return f.disassociateFn(in)
}

func (f *fakeEC2) ReleaseAddress(_ context.Context, in *ec2.ReleaseAddressInput, _ ...func(*ec2.Options)) (*ec2.ReleaseAddressOutput, error) {
	f.releaseCalls++
	if f.releaseFn == nil {
		return &ec2.ReleaseAddressOutput{}, nil
	}
	return f.releaseFn(in)
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.instancesCalls++
	if f.instancesFn == nil {
		return &ec2.DescribeInstancesOutput{}, nil
	}
	return f.instancesFn(in)
}

// fakeQuotas implements QuotasAPI.
type fakeQuotas struct {
	quotaFn func(*servicequotas.GetServiceQuotaInput) (*servicequotas.GetServiceQuotaOutput, error)
}

func (f *fakeQuotas) GetServiceQuota(_ context.Context, in *servicequotas.GetServiceQuotaInput, _ ...func(*servicequotas.Options)) (*servicequotas.GetServiceQuotaOutput, error) {
	if f.quotaFn == nil {
		return &servicequotas.GetServiceQuotaOutput{}, nil
	}
	return f.quotaFn(in)
}

func newTestClient(ec2api *fakeEC2, quotas *fakeQuotas) *Client {
	return NewWithAPIs(ec2api, quotas, Config{
		ClusterName: "test-cluster",
		DefaultTags: map[string]string{"team": "platform"},
	}, nil)
}
