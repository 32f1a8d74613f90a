package operator

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	ctrl "sigs.k8s.io/controller-runtime"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/necaris/k8s-eip-operator/cloud"
	eipv1alpha1 "github.com/necaris/k8s-eip-operator/crd/eip/api/v1alpha1"
	"github.com/necaris/k8s-eip-operator/metrics"
)

// NodeReconciler associates node-selector Eips with matching nodes. The
// address lands on the node's primary interface; no finalizer is needed
// because the association dies with the instance.
type NodeReconciler struct {
	Client ctrlclient.Client
	Cloud  Cloud
	Logger *zap.Logger
}

func (r *NodeReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := r.Logger.With(zap.String("node", req.Name))

	node := &corev1.Node{}
	if err := r.Client.Get(ctx, req.NamespacedName, node); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, errors.Wrap(err, "getting node")
	}
	if !node.DeletionTimestamp.IsZero() {
		return ctrl.Result{}, nil
	}

	eip, err := r.candidateEip(ctx, node)
	if err != nil {
		logger.Error("node reconcile failed", zap.Error(err))
		metrics.ReconcileErrors.WithLabelValues("node").Inc()
		return errorResult(), nil
	}
	if eip == nil {
		return ctrl.Result{}, nil
	}

	if err := r.associate(ctx, node, eip, logger); err != nil {
		logger.Error("node reconcile failed", zap.Error(err))
		metrics.ReconcileErrors.WithLabelValues("node").Inc()
		return errorResult(), nil
	}
	return successResult(), nil
}

// candidateEip returns the first unattached, created Eip whose node
// selector matches this node's labels.
func (r *NodeReconciler) candidateEip(ctx context.Context, node *corev1.Node) (*eipv1alpha1.Eip, error) {
	eips := &eipv1alpha1.EipList{}
	if err := r.Client.List(ctx, eips); err != nil {
		return nil, errors.Wrap(err, "listing eips")
	}
	for i := range eips.Items {
		eip := &eips.Items[i]
		if !eip.Attached() && eip.AllocationID() != "" && eip.MatchesNode(node.Labels) {
			return eip, nil
		}
	}
	return nil, nil
}

func (r *NodeReconciler) associate(ctx context.Context, node *corev1.Node, eip *eipv1alpha1.Eip, logger *zap.Logger) error {
	instanceID, err := cloud.InstanceIDFromProviderID(node.Spec.ProviderID)
	if err != nil {
		return err
	}
	eniID, privateIP, err := r.Cloud.PrimaryENI(ctx, instanceID)
	if err != nil {
		return err
	}

	address, err := r.Cloud.Address(ctx, eip.AllocationID())
	if err != nil {
		return err
	}
	if aws.ToString(address.NetworkInterfaceId) != eniID || aws.ToString(address.PrivateIpAddress) != privateIP {
		if err := awsRetrier.Do(ctx, func() error {
			return r.Cloud.Associate(ctx, eip.AllocationID(), eniID, privateIP)
		}); err != nil {
			return err
		}
		logger.Info("associated address with node",
			zap.String("allocationID", eip.AllocationID()),
			zap.String("eni", eniID),
			zap.String("privateIP", privateIP))
	}

	base := eip.DeepCopy()
	eip.Status.ENI = eniID
	eip.Status.PrivateIPAddress = privateIP
	if err := r.Client.Status().Patch(ctx, eip, ctrlclient.MergeFrom(base)); err != nil {
		return errors.Wrap(err, "patching eip status")
	}

	if node.Annotations[ExternalDNSAnnotation] != eip.Status.PublicIPAddress {
		nodeBase := node.DeepCopy()
		if node.Annotations == nil {
			node.Annotations = map[string]string{}
		}
		node.Annotations[ExternalDNSAnnotation] = eip.Status.PublicIPAddress
		if err := r.Client.Patch(ctx, node, ctrlclient.MergeFrom(nodeBase)); err != nil {
			return errors.Wrap(err, "annotating node")
		}
	}
	return nil
}

func (r *NodeReconciler) SetupWithManager(mgr ctrl.Manager) error {
	// nolint:wrapcheck // builder error needs no extra context
	return ctrl.NewControllerManagedBy(mgr).
		For(&corev1.Node{}).
		Complete(r)
}
