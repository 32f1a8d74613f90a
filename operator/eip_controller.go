package operator

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	ctrl "sigs.k8s.io/controller-runtime"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	"github.com/necaris/k8s-eip-operator/cloud"
	eipv1alpha1 "github.com/necaris/k8s-eip-operator/crd/eip/api/v1alpha1"
	"github.com/necaris/k8s-eip-operator/metrics"
)

// EipReconciler owns the EC2 address behind each Eip resource: it
// allocates on creation and releases on deletion. Association with an
// interface is the pod and node reconcilers' job.
type EipReconciler struct {
	Client ctrlclient.Client
	Cloud  Cloud
	Logger *zap.Logger
}

func (r *EipReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	logger := r.Logger.With(zap.String("eip", req.NamespacedName.String()))

	eip := &eipv1alpha1.Eip{}
	if err := r.Client.Get(ctx, req.NamespacedName, eip); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, errors.Wrap(err, "getting eip")
	}

	if !eip.DeletionTimestamp.IsZero() {
		if err := r.cleanup(ctx, eip, logger); err != nil {
			logger.Error("eip cleanup failed", zap.Error(err))
			metrics.ReconcileErrors.WithLabelValues("eip").Inc()
			return errorResult(), nil
		}
		return ctrl.Result{}, nil
	}

	if err := r.apply(ctx, eip, logger); err != nil {
		logger.Error("eip reconcile failed", zap.Error(err))
		metrics.ReconcileErrors.WithLabelValues("eip").Inc()
		return errorResult(), nil
	}

	r.reportQuota(ctx, logger)
	return successResult(), nil
}

func (r *EipReconciler) apply(ctx context.Context, eip *eipv1alpha1.Eip, logger *zap.Logger) error {
	if controllerutil.AddFinalizer(eip, EipFinalizer) {
		if err := r.Client.Update(ctx, eip); err != nil {
			return errors.Wrap(err, "adding finalizer")
		}
	}

	// The CRD schema enforces this server-side; guard anyway so a stale
	// stored object cannot drive a bad allocation.
	if err := eip.Spec.Selector.Validate(); err != nil {
		return err
	}

	var allocationID, publicIP string
	err := awsRetrier.Do(ctx, func() error {
		var ensureErr error
		allocationID, publicIP, ensureErr = r.Cloud.EnsureAddress(ctx, cloud.AddressIdentity{
			UID:       string(eip.UID),
			Name:      eip.Name,
			Namespace: eip.Namespace,
			Selector:  eip.Spec.Selector.String(),
		})
		return ensureErr
	})
	if err != nil {
		return err
	}

	if eip.Status.AllocationID != allocationID || eip.Status.PublicIPAddress != publicIP {
		base := eip.DeepCopy()
		eip.Status.AllocationID = allocationID
		eip.Status.PublicIPAddress = publicIP
		if err := r.Client.Status().Patch(ctx, eip, ctrlclient.MergeFrom(base)); err != nil {
			return errors.Wrap(err, "patching status")
		}
		logger.Info("address created",
			zap.String("allocationID", allocationID),
			zap.String("publicIP", publicIP))
	}
	return nil
}

// cleanup releases every address tagged with this Eip's UID, then lets the
// deletion proceed.
func (r *EipReconciler) cleanup(ctx context.Context, eip *eipv1alpha1.Eip, logger *zap.Logger) error {
	addresses, err := r.Cloud.AddressesByUID(ctx, string(eip.UID))
	if err != nil {
		return err
	}
	for _, address := range addresses {
		if err := r.Cloud.DisassociateAndRelease(ctx, address); err != nil {
			return err
		}
	}
	if len(addresses) > 0 {
		logger.Info("released addresses", zap.Int("count", len(addresses)))
	}

	if controllerutil.RemoveFinalizer(eip, EipFinalizer) {
		if err := r.Client.Update(ctx, eip); err != nil {
			return errors.Wrap(err, "removing finalizer")
		}
	}
	return nil
}

func (r *EipReconciler) reportQuota(ctx context.Context, logger *zap.Logger) {
	status, err := r.Cloud.QuotaStatus(ctx)
	if err != nil {
		logger.Warn("quota status unavailable", zap.Error(err))
		return
	}
	metrics.EipsAllocated.Set(float64(status.Allocated))
	metrics.EipQuota.Set(status.Quota)
	if status.Exhausted() {
		logger.Warn("eip quota exhausted",
			zap.Int("allocated", status.Allocated),
			zap.Float64("quota", status.Quota))
	}
}

func (r *EipReconciler) SetupWithManager(mgr ctrl.Manager) error {
	// nolint:wrapcheck // builder error needs no extra context
	return ctrl.NewControllerManagedBy(mgr).
		For(&eipv1alpha1.Eip{}).
		Complete(r)
}
