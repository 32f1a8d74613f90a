package operator

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awstypes "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/necaris/k8s-eip-operator/cloud"
	eipv1alpha1 "github.com/necaris/k8s-eip-operator/crd/eip/api/v1alpha1"
)

func taggedAddress(allocationID, uid string) awstypes.Address {
	address := awstypes.Address{AllocationId: aws.String(allocationID)}
	if uid != "" {
		address.Tags = []awstypes.Tag{{Key: aws.String(cloud.TagEipUID), Value: aws.String(uid)}}
	}
	return address
}

func TestSweepReleasesOrphans(t *testing.T) {
	live := &eipv1alpha1.Eip{
		ObjectMeta: metav1.ObjectMeta{Namespace: "prod", Name: "web-0", UID: "uid-live"},
		Spec:       eipv1alpha1.EipSpec{Selector: eipv1alpha1.EipSelector{PodName: "web-0"}},
	}
	cli := newFakeClient(t, live)

	fc := &fakeCloud{
		clusterFn: func(context.Context, string) ([]awstypes.Address, error) {
			return []awstypes.Address{
				taggedAddress("eipalloc-live", "uid-live"),
				taggedAddress("eipalloc-orphan", "uid-deleted"),
				taggedAddress("eipalloc-untagged", ""),
			}, nil
		},
	}
	s := &Sweeper{Reader: cli, Cloud: fc, Logger: zap.NewNop()}

	result, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scanned: 3, Released: 2}, result)

	released := make([]string, 0, len(fc.released))
	for _, address := range fc.released {
		released = append(released, aws.ToString(address.AllocationId))
	}
	assert.ElementsMatch(t, []string{"eipalloc-orphan", "eipalloc-untagged"}, released)
}

func TestSweepNothingToDo(t *testing.T) {
	live := &eipv1alpha1.Eip{
		ObjectMeta: metav1.ObjectMeta{Namespace: "prod", Name: "web-0", UID: "uid-live"},
		Spec:       eipv1alpha1.EipSpec{Selector: eipv1alpha1.EipSelector{PodName: "web-0"}},
	}
	cli := newFakeClient(t, live)

	fc := &fakeCloud{
		clusterFn: func(context.Context, string) ([]awstypes.Address, error) {
			return []awstypes.Address{taggedAddress("eipalloc-live", "uid-live")}, nil
		},
	}
	s := &Sweeper{Reader: cli, Cloud: fc, Logger: zap.NewNop()}

	result, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scanned: 1, Released: 0}, result)
	assert.Empty(t, fc.released)
}

func TestSweepResultEqual(t *testing.T) {
	assert.True(t, SweepResult{Scanned: 2}.Equal(SweepResult{Scanned: 2}))
	assert.False(t, SweepResult{Scanned: 2}.Equal(SweepResult{Scanned: 2, Released: 1}))
}
