package cloud

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceIDFromProviderID(t *testing.T) {
	id, err := InstanceIDFromProviderID("aws:///us-east-1a/i-0123456789abcdef0")
	require.NoError(t, err)
	assert.Equal(t, "i-0123456789abcdef0", id)

	_, err = InstanceIDFromProviderID("not-a-provider-id")
	require.ErrorIs(t, err, ErrMalformedProviderID)

	_, err = InstanceIDFromProviderID("aws:///us-east-1a/")
	require.ErrorIs(t, err, ErrMalformedProviderID)
}

func instanceWithNICs(nics ...types.InstanceNetworkInterface) func(*ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error) {
	return func(*ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error) {
		return &ec2.DescribeInstancesOutput{
			Reservations: []types.Reservation{{
				Instances: []types.Instance{{NetworkInterfaces: nics}},
			}},
		}, nil
	}
}

func TestENIByPrivateIP(t *testing.T) {
	fake := &fakeEC2{
		instancesFn: instanceWithNICs(
			types.InstanceNetworkInterface{
				NetworkInterfaceId: aws.String("eni-primary"),
				PrivateIpAddresses: []types.InstancePrivateIpAddress{
					{PrivateIpAddress: aws.String("10.0.0.10")},
				},
			},
			types.InstanceNetworkInterface{
				NetworkInterfaceId: aws.String("eni-branch"),
				PrivateIpAddresses: []types.InstancePrivateIpAddress{
					{PrivateIpAddress: aws.String("10.0.1.42")},
				},
			},
		),
	}
	c := newTestClient(fake, &fakeQuotas{})

	eniID, err := c.ENIByPrivateIP(context.Background(), "i-1", "10.0.1.42")
	require.NoError(t, err)
	assert.Equal(t, "eni-branch", eniID)

	// second lookup hits the cache
	eniID, err = c.ENIByPrivateIP(context.Background(), "i-1", "10.0.1.42")
	require.NoError(t, err)
	assert.Equal(t, "eni-branch", eniID)
	assert.Equal(t, 1, fake.instancesCalls)
}

func TestENIByPrivateIPNoMatch(t *testing.T) {
	fake := &fakeEC2{
		instancesFn: instanceWithNICs(types.InstanceNetworkInterface{
			NetworkInterfaceId: aws.String("eni-primary"),
			PrivateIpAddresses: []types.InstancePrivateIpAddress{
				{PrivateIpAddress: aws.String("10.0.0.10")},
			},
		}),
	}
	c := newTestClient(fake, &fakeQuotas{})

	_, err := c.ENIByPrivateIP(context.Background(), "i-1", "10.9.9.9")
	require.ErrorIs(t, err, ErrNoInterfaceWithIP)
}

func TestPrimaryENI(t *testing.T) {
	fake := &fakeEC2{
		instancesFn: instanceWithNICs(
			types.InstanceNetworkInterface{
				NetworkInterfaceId: aws.String("eni-branch"),
				Attachment:         &types.InstanceNetworkInterfaceAttachment{DeviceIndex: aws.Int32(1)},
				PrivateIpAddresses: []types.InstancePrivateIpAddress{
					{PrivateIpAddress: aws.String("10.0.1.42"), Primary: aws.Bool(true)},
				},
			},
			types.InstanceNetworkInterface{
				NetworkInterfaceId: aws.String("eni-primary"),
				Attachment:         &types.InstanceNetworkInterfaceAttachment{DeviceIndex: aws.Int32(0)},
				PrivateIpAddresses: []types.InstancePrivateIpAddress{
					{PrivateIpAddress: aws.String("10.0.0.200")},
					{PrivateIpAddress: aws.String("10.0.0.10"), Primary: aws.Bool(true)},
				},
			},
		),
	}
	c := newTestClient(fake, &fakeQuotas{})

	eniID, privateIP, err := c.PrimaryENI(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Equal(t, "eni-primary", eniID)
	assert.Equal(t, "10.0.0.10", privateIP)
}

func TestPrimaryENIMissing(t *testing.T) {
	fake := &fakeEC2{instancesFn: instanceWithNICs()}
	c := newTestClient(fake, &fakeQuotas{})

	_, _, err := c.PrimaryENI(context.Background(), "i-1")
	require.ErrorIs(t, err, ErrNoPrimaryInterface)
}

func TestDescribeInstanceNoReservations(t *testing.T) {
	fake := &fakeEC2{
		instancesFn: func(*ec2.DescribeInstancesInput) (*ec2.DescribeInstancesOutput, error) {
			return &ec2.DescribeInstancesOutput{}, nil
		},
	}
	c := newTestClient(fake, &fakeQuotas{})

	_, err := c.ENIByPrivateIP(context.Background(), "i-gone", "10.0.0.1")
	require.ErrorIs(t, err, ErrMissingReservations)
}
