package rpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/necaris/k8s-eip-operator/cloud"
	eipv1alpha1 "github.com/necaris/k8s-eip-operator/crd/eip/api/v1alpha1"
	pb "github.com/necaris/k8s-eip-operator/rpc/v1alpha"
)

type fakeQuota struct {
	status cloud.QuotaStatus
	err    error
}

func (f fakeQuota) QuotaStatus(context.Context) (cloud.QuotaStatus, error) {
	return f.status, f.err
}

func newScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	require.NoError(t, eipv1alpha1.AddToScheme(scheme))
	return scheme
}

func TestListEips(t *testing.T) {
	attached := &eipv1alpha1.Eip{
		ObjectMeta: metav1.ObjectMeta{Namespace: "prod", Name: "web-0-eip"},
		Spec: eipv1alpha1.EipSpec{
			Selector: eipv1alpha1.EipSelector{PodName: "web-0"},
		},
		Status: eipv1alpha1.EipStatus{
			AllocationID:     "eipalloc-0a1b2c",
			PublicIPAddress:  "54.1.2.3",
			PrivateIPAddress: "10.0.1.17",
			ENI:              "eni-0d4e5f",
		},
	}
	pending := &eipv1alpha1.Eip{
		ObjectMeta: metav1.ObjectMeta{Namespace: "staging", Name: "ingress-eip"},
		Spec: eipv1alpha1.EipSpec{
			Selector: eipv1alpha1.EipSelector{NodeSelector: map[string]string{"role": "ingress"}},
		},
	}

	cli := fake.NewClientBuilder().
		WithScheme(newScheme(t)).
		WithObjects(attached, pending).
		Build()

	svc := &EipOperatorService{Reader: cli, Logger: zap.NewNop()}

	resp, err := svc.ListEips(context.Background(), &pb.ListEipsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Eips, 2)

	byName := map[string]*pb.EipSummary{}
	for _, e := range resp.Eips {
		byName[e.Name] = e
	}

	web := byName["web-0-eip"]
	require.NotNil(t, web)
	assert.Equal(t, "prod", web.Namespace)
	assert.Equal(t, "Pod(web-0)", web.Selector)
	assert.Equal(t, "eipalloc-0a1b2c", web.AllocationId)
	assert.Equal(t, "54.1.2.3", web.PublicIpAddress)
	assert.True(t, web.Attached)

	ingress := byName["ingress-eip"]
	require.NotNil(t, ingress)
	assert.False(t, ingress.Attached)
	assert.Empty(t, ingress.AllocationId)

	// namespace filter
	resp, err = svc.ListEips(context.Background(), &pb.ListEipsRequest{Namespace: "prod"})
	require.NoError(t, err)
	require.Len(t, resp.Eips, 1)
	assert.Equal(t, "web-0-eip", resp.Eips[0].Name)
}

func TestGetQuotaStatus(t *testing.T) {
	svc := &EipOperatorService{
		Quota:  fakeQuota{status: cloud.QuotaStatus{Quota: 5, Allocated: 5}},
		Logger: zap.NewNop(),
	}

	resp, err := svc.GetQuotaStatus(context.Background(), &pb.GetQuotaStatusRequest{})
	require.NoError(t, err)
	assert.Equal(t, float64(5), resp.Quota)
	assert.Equal(t, int32(5), resp.Allocated)
	assert.True(t, resp.Exhausted)
}

func TestGetQuotaStatusError(t *testing.T) {
	svc := &EipOperatorService{
		Quota:  fakeQuota{err: assert.AnError},
		Logger: zap.NewNop(),
	}

	_, err := svc.GetQuotaStatus(context.Background(), &pb.GetQuotaStatusRequest{})
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestNewServerRequiresService(t *testing.T) {
	_, err := NewServer(ServerSettings{Port: 50051}, nil, zap.NewNop())
	require.Error(t, err)
}
