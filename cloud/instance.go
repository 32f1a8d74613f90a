package cloud

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/necaris/k8s-eip-operator/metrics"
)

var ErrMalformedProviderID = errors.New("node provider ID is not in the expected format")

// InstanceIDFromProviderID extracts the EC2 instance ID from a node's
// spec.providerID, e.g. "aws:///us-east-1a/i-0123456789abcdef0".
func InstanceIDFromProviderID(providerID string) (string, error) {
	idx := strings.LastIndex(providerID, "/")
	if idx < 0 || idx == len(providerID)-1 {
		return "", errors.Wrap(ErrMalformedProviderID, providerID)
	}
	return providerID[idx+1:], nil
}

// ENIByPrivateIP finds the network interface on an instance carrying the
// given private IP. Results are cached briefly; pods churn faster than
// DescribeInstances rate limits tolerate.
func (c *Client) ENIByPrivateIP(ctx context.Context, instanceID, privateIP string) (string, error) {
	cacheKey := instanceID + "/" + privateIP
	if eniID, found := c.eniCache.Get(cacheKey); found {
		return eniID.(string), nil
	}

	instance, err := c.describeInstance(ctx, instanceID)
	if err != nil {
		return "", err
	}
	for _, nic := range instance.NetworkInterfaces {
		for _, ip := range nic.PrivateIpAddresses {
			if aws.ToString(ip.PrivateIpAddress) == privateIP {
				eniID := aws.ToString(nic.NetworkInterfaceId)
				c.eniCache.Set(cacheKey, eniID, gocache.DefaultExpiration)
				return eniID, nil
			}
		}
	}
	return "", errors.Wrapf(ErrNoInterfaceWithIP, "instance %s ip %s", instanceID, privateIP)
}

// PrimaryENI returns the device-index-0 interface of an instance and its
// primary private IP. Node-selector Eips associate here.
func (c *Client) PrimaryENI(ctx context.Context, instanceID string) (eniID, privateIP string, err error) {
	instance, err := c.describeInstance(ctx, instanceID)
	if err != nil {
		return "", "", err
	}
	for _, nic := range instance.NetworkInterfaces {
		if nic.Attachment == nil || aws.ToInt32(nic.Attachment.DeviceIndex) != 0 {
			continue
		}
		for _, ip := range nic.PrivateIpAddresses {
			if aws.ToBool(ip.Primary) {
				return aws.ToString(nic.NetworkInterfaceId), aws.ToString(ip.PrivateIpAddress), nil
			}
		}
	}
	return "", "", errors.Wrap(ErrNoPrimaryInterface, instanceID)
}

func (c *Client) describeInstance(ctx context.Context, instanceID string) (types.Instance, error) {
	start := time.Now()
	out, err := c.ec2api.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{instanceID},
	})
	metrics.ObserveAWSRequest("DescribeInstances", err, start)
	if err != nil {
		return types.Instance{}, errors.Wrapf(err, "failed to describe instance %s", instanceID)
	}
	if len(out.Reservations) == 0 || len(out.Reservations[0].Instances) == 0 {
		return types.Instance{}, errors.Wrap(ErrMissingReservations, instanceID)
	}
	return out.Reservations[0].Instances[0], nil
}
