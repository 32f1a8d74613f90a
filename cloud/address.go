package cloud

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/necaris/k8s-eip-operator/metrics"
)

// EnsureAddress finds or allocates the EC2 address for the given Eip
// identity. It is idempotent: an address already tagged with the UID is
// reused. More than one tagged address means something external duplicated
// the allocation and requires operator intervention.
func (c *Client) EnsureAddress(ctx context.Context, id AddressIdentity) (allocationID, publicIP string, err error) {
	addresses, err := c.AddressesByUID(ctx, id.UID)
	if err != nil {
		return "", "", err
	}
	switch len(addresses) {
	case 0:
		return c.allocateAddress(ctx, id)
	case 1:
		allocationID = aws.ToString(addresses[0].AllocationId)
		if allocationID == "" {
			return "", "", ErrMissingAllocationID
		}
		return allocationID, aws.ToString(addresses[0].PublicIp), nil
	default:
		return "", "", errors.Wrapf(ErrMultipleTaggedAddresses, "uid %s", id.UID)
	}
}

func (c *Client) allocateAddress(ctx context.Context, id AddressIdentity) (allocationID, publicIP string, err error) {
	start := time.Now()
	out, err := c.ec2api.AllocateAddress(ctx, &ec2.AllocateAddressInput{
		Domain: types.DomainTypeVpc,
		TagSpecifications: []types.TagSpecification{{
			ResourceType: types.ResourceTypeElasticIp,
			Tags:         c.buildTags(id),
		}},
	})
	metrics.ObserveAWSRequest("AllocateAddress", err, start)
	if err != nil {
		return "", "", errors.Wrap(err, "failed to allocate address")
	}
	allocationID = aws.ToString(out.AllocationId)
	if allocationID == "" {
		return "", "", ErrMissingAllocationID
	}
	c.logger.Info("allocated address",
		zap.String("allocationID", allocationID),
		zap.String("publicIP", aws.ToString(out.PublicIp)),
		zap.String("eipUID", id.UID))
	return allocationID, aws.ToString(out.PublicIp), nil
}

// AddressesByUID lists addresses tagged with the given Eip UID.
func (c *Client) AddressesByUID(ctx context.Context, uid string) ([]types.Address, error) {
	return c.addressesByFilter(ctx, types.Filter{
		Name:   aws.String("tag:" + TagEipUID),
		Values: []string{uid},
	})
}

// ClusterAddresses lists addresses tagged for this cluster, optionally
// restricted to one namespace. The orphan sweeper works from this set.
func (c *Client) ClusterAddresses(ctx context.Context, namespace string) ([]types.Address, error) {
	filters := []types.Filter{{
		Name:   aws.String("tag:" + TagClusterName),
		Values: []string{c.clusterName},
	}}
	if namespace != "" {
		filters = append(filters, types.Filter{
			Name:   aws.String("tag:" + TagNamespace),
			Values: []string{namespace},
		})
	}
	return c.addressesByFilter(ctx, filters...)
}

// AllAddresses lists every address in the account/region, for quota math.
func (c *Client) AllAddresses(ctx context.Context) ([]types.Address, error) {
	return c.addressesByFilter(ctx)
}

func (c *Client) addressesByFilter(ctx context.Context, filters ...types.Filter) ([]types.Address, error) {
	start := time.Now()
	out, err := c.ec2api.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{Filters: filters})
	metrics.ObserveAWSRequest("DescribeAddresses", err, start)
	if err != nil {
		return nil, errors.Wrap(err, "failed to describe addresses")
	}
	return out.Addresses, nil
}

// Address fetches one address by allocation ID.
func (c *Client) Address(ctx context.Context, allocationID string) (types.Address, error) {
	start := time.Now()
	out, err := c.ec2api.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{
		AllocationIds: []string{allocationID},
	})
	metrics.ObserveAWSRequest("DescribeAddresses", err, start)
	if err != nil {
		return types.Address{}, errors.Wrapf(err, "failed to describe address %s", allocationID)
	}
	if len(out.Addresses) == 0 {
		return types.Address{}, errors.Wrap(ErrAddressNotFound, allocationID)
	}
	return out.Addresses[0], nil
}

// Associate maps the address onto the ENI/private IP pair. Reassociation is
// allowed so a pod rescheduled to another node steals its address back.
func (c *Client) Associate(ctx context.Context, allocationID, eniID, privateIP string) error {
	start := time.Now()
	_, err := c.ec2api.AssociateAddress(ctx, &ec2.AssociateAddressInput{
		AllocationId:       aws.String(allocationID),
		NetworkInterfaceId: aws.String(eniID),
		PrivateIpAddress:   aws.String(privateIP),
		AllowReassociation: aws.Bool(true),
	})
	metrics.ObserveAWSRequest("AssociateAddress", err, start)
	if err != nil {
		return errors.Wrapf(err, "failed to associate address %s with eni %s", allocationID, eniID)
	}
	c.logger.Info("associated address",
		zap.String("allocationID", allocationID),
		zap.String("eni", eniID),
		zap.String("privateIP", privateIP))
	return nil
}

// Disassociate removes an association. A missing association is success.
func (c *Client) Disassociate(ctx context.Context, associationID string) error {
	start := time.Now()
	_, err := c.ec2api.DisassociateAddress(ctx, &ec2.DisassociateAddressInput{
		AssociationId: aws.String(associationID),
	})
	metrics.ObserveAWSRequest("DisassociateAddress", err, start)
	if err != nil && !IsNotFound(err) {
		return errors.Wrapf(err, "failed to disassociate %s", associationID)
	}
	return nil
}

// Release returns an allocation to AWS. A missing allocation is success.
func (c *Client) Release(ctx context.Context, allocationID string) error {
	start := time.Now()
	_, err := c.ec2api.ReleaseAddress(ctx, &ec2.ReleaseAddressInput{
		AllocationId: aws.String(allocationID),
	})
	metrics.ObserveAWSRequest("ReleaseAddress", err, start)
	if err != nil && !IsNotFound(err) {
		return errors.Wrapf(err, "failed to release %s", allocationID)
	}
	return nil
}

// DisassociateAndRelease tears an address down completely.
func (c *Client) DisassociateAndRelease(ctx context.Context, address types.Address) error {
	if associationID := aws.ToString(address.AssociationId); associationID != "" {
		if err := c.Disassociate(ctx, associationID); err != nil {
			return err
		}
	}
	allocationID := aws.ToString(address.AllocationId)
	if allocationID == "" {
		return ErrMissingAllocationID
	}
	if err := c.Release(ctx, allocationID); err != nil {
		return err
	}
	c.logger.Info("released address", zap.String("allocationID", allocationID))
	return nil
}
