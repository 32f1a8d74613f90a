package operator

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/necaris/k8s-eip-operator/cloud"
)

// Cloud is the AWS surface the reconcilers depend on. *cloud.Client
// implements it; tests substitute a fake.
type Cloud interface {
	EnsureAddress(ctx context.Context, id cloud.AddressIdentity) (allocationID, publicIP string, err error)
	AddressesByUID(ctx context.Context, uid string) ([]types.Address, error)
	ClusterAddresses(ctx context.Context, namespace string) ([]types.Address, error)
	Address(ctx context.Context, allocationID string) (types.Address, error)
	Associate(ctx context.Context, allocationID, eniID, privateIP string) error
	Disassociate(ctx context.Context, associationID string) error
	DisassociateAndRelease(ctx context.Context, address types.Address) error
	ENIByPrivateIP(ctx context.Context, instanceID, privateIP string) (string, error)
	PrimaryENI(ctx context.Context, instanceID string) (eniID, privateIP string, err error)
	QuotaStatus(ctx context.Context) (cloud.QuotaStatus, error)
}

var _ Cloud = &cloud.Client{}
