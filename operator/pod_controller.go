package operator

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/predicate"

	"github.com/necaris/k8s-eip-operator/cloud"
	eipv1alpha1 "github.com/necaris/k8s-eip-operator/crd/eip/api/v1alpha1"
	"github.com/necaris/k8s-eip-operator/metrics"
)

var (
	errPodNotReady   = errors.New("pod has no IP or node assignment yet")
	errNoMatchingEip = errors.New("no eip matches this pod")
	errEipNotCreated = errors.New("matching eip has no address yet")
)

// PodReconciler associates addresses with managed pods. It resolves the
// interface carrying the pod IP (branch ENI annotation first, instance
// description second), associates the matching Eip's address with it, and
// keeps the pod's DNS annotations current.
type PodReconciler struct {
	Client ctrlclient.Client
	Cloud  Cloud
	Logger *zap.Logger
}

func (r *PodReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := r.Logger.With(zap.String("pod", req.NamespacedName.String()))

	pod := &corev1.Pod{}
	if err := r.Client.Get(ctx, req.NamespacedName, pod); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, errors.Wrap(err, "getting pod")
	}

	if !pod.DeletionTimestamp.IsZero() {
		if err := r.cleanup(ctx, pod, logger); err != nil {
			logger.Error("pod cleanup failed", zap.Error(err))
			metrics.ReconcileErrors.WithLabelValues("pod").Inc()
			return errorResult(), nil
		}
		return ctrl.Result{}, nil
	}

	if err := r.apply(ctx, pod, logger); err != nil {
		if errors.Is(err, errPodNotReady) || errors.Is(err, errNoMatchingEip) || errors.Is(err, errEipNotCreated) {
			// normal ordering races; come back shortly without alarming anyone
			logger.Info("waiting to associate", zap.String("reason", err.Error()))
			return errorResult(), nil
		}
		logger.Error("pod reconcile failed", zap.Error(err))
		metrics.ReconcileErrors.WithLabelValues("pod").Inc()
		return errorResult(), nil
	}
	return successResult(), nil
}

func (r *PodReconciler) apply(ctx context.Context, pod *corev1.Pod, logger *zap.Logger) error {
	if controllerutil.AddFinalizer(pod, PodFinalizer) {
		if err := r.Client.Update(ctx, pod); err != nil {
			return errors.Wrap(err, "adding finalizer")
		}
	}

	if pod.Labels[AutocreateLabel] == "true" {
		if err := r.autocreateEip(ctx, pod); err != nil {
			return err
		}
	}

	if pod.Status.PodIP == "" || pod.Spec.NodeName == "" {
		return errPodNotReady
	}

	eniID, err := r.resolveENI(ctx, pod)
	if err != nil {
		return err
	}

	eip, err := r.matchingEip(ctx, pod)
	if err != nil {
		return err
	}
	if eip == nil {
		return errNoMatchingEip
	}
	if eip.AllocationID() == "" {
		return errEipNotCreated
	}

	address, err := r.Cloud.Address(ctx, eip.AllocationID())
	if err != nil {
		return err
	}
	if aws.ToString(address.NetworkInterfaceId) != eniID || aws.ToString(address.PrivateIpAddress) != pod.Status.PodIP {
		if err := awsRetrier.Do(ctx, func() error {
			return r.Cloud.Associate(ctx, eip.AllocationID(), eniID, pod.Status.PodIP)
		}); err != nil {
			return err
		}
		logger.Info("associated address with pod",
			zap.String("allocationID", eip.AllocationID()),
			zap.String("eni", eniID),
			zap.String("podIP", pod.Status.PodIP))
	}

	if eip.Status.ENI != eniID || eip.Status.PrivateIPAddress != pod.Status.PodIP {
		base := eip.DeepCopy()
		eip.Status.ENI = eniID
		eip.Status.PrivateIPAddress = pod.Status.PodIP
		if err := r.Client.Status().Patch(ctx, eip, ctrlclient.MergeFrom(base)); err != nil {
			return errors.Wrap(err, "patching eip status")
		}
	}

	return r.annotatePod(ctx, pod, eip.AllocationID(), eip.Status.PublicIPAddress)
}

func (r *PodReconciler) cleanup(ctx context.Context, pod *corev1.Pod, logger *zap.Logger) error {
	eip, err := r.matchingEip(ctx, pod)
	if err != nil {
		return err
	}

	if eip != nil && eip.AllocationID() != "" {
		address, err := r.Cloud.Address(ctx, eip.AllocationID())
		switch {
		case errors.Is(err, cloud.ErrAddressNotFound):
			// already gone; nothing to disassociate
		case err != nil:
			return err
		default:
			if associationID := aws.ToString(address.AssociationId); associationID != "" {
				if err := r.Cloud.Disassociate(ctx, associationID); err != nil {
					return err
				}
				logger.Info("disassociated address", zap.String("allocationID", eip.AllocationID()))
			}
		}

		if eip.Attached() {
			base := eip.DeepCopy()
			eip.Status.ENI = ""
			eip.Status.PrivateIPAddress = ""
			if err := r.Client.Status().Patch(ctx, eip, ctrlclient.MergeFrom(base)); err != nil {
				return errors.Wrap(err, "patching eip status")
			}
		}
	}

	if eip != nil && pod.Labels[AutocreateLabel] == "true" {
		if err := r.Client.Delete(ctx, eip); err != nil && !apierrors.IsNotFound(err) {
			return errors.Wrap(err, "deleting autocreated eip")
		}
	}

	if controllerutil.RemoveFinalizer(pod, PodFinalizer) {
		if err := r.Client.Update(ctx, pod); err != nil {
			return errors.Wrap(err, "removing finalizer")
		}
	}
	return nil
}

// autocreateEip creates an Eip named after the pod, so workloads can opt
// in with a single label instead of shipping a manifest.
func (r *PodReconciler) autocreateEip(ctx context.Context, pod *corev1.Pod) error {
	eip := &eipv1alpha1.Eip{
		ObjectMeta: metav1.ObjectMeta{
			Name:      pod.Name,
			Namespace: pod.Namespace,
		},
		Spec: eipv1alpha1.EipSpec{
			Selector: eipv1alpha1.EipSelector{PodName: pod.Name},
		},
	}
	if err := r.Client.Create(ctx, eip); err != nil && !apierrors.IsAlreadyExists(err) {
		return errors.Wrap(err, "creating autocreated eip")
	}
	return nil
}

// resolveENI prefers the branch ENI the VPC CNI recorded on the pod, and
// otherwise matches the pod IP against the instance's interfaces.
func (r *PodReconciler) resolveENI(ctx context.Context, pod *corev1.Pod) (string, error) {
	if eniID, ok, err := branchENIFromAnnotation(pod); err != nil {
		return "", err
	} else if ok {
		return eniID, nil
	}

	node := &corev1.Node{}
	if err := r.Client.Get(ctx, ctrlclient.ObjectKey{Name: pod.Spec.NodeName}, node); err != nil {
		return "", errors.Wrap(err, "getting node")
	}
	instanceID, err := cloud.InstanceIDFromProviderID(node.Spec.ProviderID)
	if err != nil {
		return "", err
	}
	return r.Cloud.ENIByPrivateIP(ctx, instanceID, pod.Status.PodIP)
}

func (r *PodReconciler) matchingEip(ctx context.Context, pod *corev1.Pod) (*eipv1alpha1.Eip, error) {
	eips := &eipv1alpha1.EipList{}
	if err := r.Client.List(ctx, eips, ctrlclient.InNamespace(pod.Namespace)); err != nil {
		return nil, errors.Wrap(err, "listing eips")
	}
	for i := range eips.Items {
		if eips.Items[i].MatchesPod(pod.Name) {
			return &eips.Items[i], nil
		}
	}
	return nil, nil
}

func (r *PodReconciler) annotatePod(ctx context.Context, pod *corev1.Pod, allocationID, publicIP string) error {
	if pod.Annotations[AllocationIDAnnotation] == allocationID && pod.Annotations[ExternalDNSAnnotation] == publicIP {
		return nil
	}
	base := pod.DeepCopy()
	if pod.Annotations == nil {
		pod.Annotations = map[string]string{}
	}
	pod.Annotations[AllocationIDAnnotation] = allocationID
	pod.Annotations[ExternalDNSAnnotation] = publicIP
	return errors.Wrap(r.Client.Patch(ctx, pod, ctrlclient.MergeFrom(base)), "annotating pod")
}

type branchENI struct {
	EniID string `json:"eniId"`
}

func branchENIFromAnnotation(pod *corev1.Pod) (string, bool, error) {
	raw, ok := pod.Annotations[BranchENIAnnotation]
	if !ok || raw == "" {
		return "", false, nil
	}
	var enis []branchENI
	if err := json.Unmarshal([]byte(raw), &enis); err != nil {
		return "", false, errors.Wrapf(err, "parsing %s annotation", BranchENIAnnotation)
	}
	if len(enis) == 0 || enis[0].EniID == "" {
		return "", false, nil
	}
	return enis[0].EniID, true, nil
}

func managedPod(obj ctrlclient.Object) bool {
	return obj.GetLabels()[ManageLabel] == "true"
}

func (r *PodReconciler) SetupWithManager(mgr ctrl.Manager) error {
	// nolint:wrapcheck // builder error needs no extra context
	return ctrl.NewControllerManagedBy(mgr).
		For(&corev1.Pod{}, builder.WithPredicates(predicate.NewPredicateFuncs(managedPod))).
		Complete(r)
}
