package operator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ktypes "k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"

	eipv1alpha1 "github.com/necaris/k8s-eip-operator/crd/eip/api/v1alpha1"
)

func ingressNodeFixture() *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{
			Name:   "ingress-1",
			Labels: map[string]string{"role": "ingress"},
		},
		Spec: corev1.NodeSpec{ProviderID: "aws:///us-east-1a/i-0feedfacecafebeef"},
	}
}

func nodeEipFixture() *eipv1alpha1.Eip {
	return &eipv1alpha1.Eip{
		ObjectMeta: metav1.ObjectMeta{Namespace: "infra", Name: "ingress-eip", UID: "uid-n1"},
		Spec: eipv1alpha1.EipSpec{
			Selector: eipv1alpha1.EipSelector{NodeSelector: map[string]string{"role": "ingress"}},
		},
		Status: eipv1alpha1.EipStatus{
			AllocationID:    "eipalloc-n1",
			PublicIPAddress: "54.9.9.9",
		},
	}
}

func nodeRequest() ctrl.Request {
	return ctrl.Request{NamespacedName: ktypes.NamespacedName{Name: "ingress-1"}}
}

func TestNodeAssociates(t *testing.T) {
	cli := newFakeClient(t, ingressNodeFixture(), nodeEipFixture())
	fc := &fakeCloud{
		primaryENIFn: func(_ context.Context, instanceID string) (string, string, error) {
			assert.Equal(t, "i-0feedfacecafebeef", instanceID)
			return "eni-primary", "10.0.0.10", nil
		},
	}
	r := &NodeReconciler{Client: cli, Cloud: fc, Logger: zap.NewNop()}

	_, err := r.Reconcile(context.Background(), nodeRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, fc.associateCalls)

	eip := &eipv1alpha1.Eip{}
	require.NoError(t, cli.Get(context.Background(), ktypes.NamespacedName{Namespace: "infra", Name: "ingress-eip"}, eip))
	assert.Equal(t, "eni-primary", eip.Status.ENI)
	assert.Equal(t, "10.0.0.10", eip.Status.PrivateIPAddress)

	node := &corev1.Node{}
	require.NoError(t, cli.Get(context.Background(), nodeRequest().NamespacedName, node))
	assert.Equal(t, "54.9.9.9", node.Annotations[ExternalDNSAnnotation])
}

func TestNodeNoCandidate(t *testing.T) {
	// attached eips and non-matching selectors are both skipped
	attached := nodeEipFixture()
	attached.Status.PrivateIPAddress = "10.0.0.10"

	podSelected := &eipv1alpha1.Eip{
		ObjectMeta: metav1.ObjectMeta{Namespace: "infra", Name: "pod-eip", UID: "uid-n2"},
		Spec:       eipv1alpha1.EipSpec{Selector: eipv1alpha1.EipSelector{PodName: "web-0"}},
		Status:     eipv1alpha1.EipStatus{AllocationID: "eipalloc-n2"},
	}

	cli := newFakeClient(t, ingressNodeFixture(), attached, podSelected)
	fc := &fakeCloud{}
	r := &NodeReconciler{Client: cli, Cloud: fc, Logger: zap.NewNop()}

	result, err := r.Reconcile(context.Background(), nodeRequest())
	require.NoError(t, err)
	assert.Zero(t, result.RequeueAfter)
	assert.Zero(t, fc.associateCalls)
}

func TestNodeMalformedProviderID(t *testing.T) {
	node := ingressNodeFixture()
	node.Spec.ProviderID = "garbage"

	cli := newFakeClient(t, node, nodeEipFixture())
	r := &NodeReconciler{Client: cli, Cloud: &fakeCloud{}, Logger: zap.NewNop()}

	result, err := r.Reconcile(context.Background(), nodeRequest())
	require.NoError(t, err)
	assert.NotZero(t, result.RequeueAfter, "malformed provider id should requeue for retry")
}
