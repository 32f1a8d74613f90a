// Package operator holds the reconcilers that keep Eip resources, pods,
// nodes, and EC2 Elastic IP addresses in agreement.
package operator

import (
	"math/rand"
	"time"

	ctrl "sigs.k8s.io/controller-runtime"
)

const (
	// ManageLabel opts a pod in to address management.
	ManageLabel = "eip.necaris.dev/manage"
	// AutocreateLabel makes the pod reconciler create an Eip named after
	// the pod.
	AutocreateLabel = "eip.necaris.dev/autocreate_eip"

	// PodFinalizer blocks pod deletion until its address is disassociated.
	PodFinalizer = "eip.necaris.dev/disassociate"
	// EipFinalizer blocks Eip deletion until the EC2 address is released.
	EipFinalizer = "eip.necaris.dev/destroy"

	// AllocationIDAnnotation records the EC2 allocation on the pod.
	AllocationIDAnnotation = "eip.necaris.dev/allocation_id"
	// ExternalDNSAnnotation is consumed by external-dns; the operator
	// writes the public IP there.
	ExternalDNSAnnotation = "external-dns.alpha.kubernetes.io/target"
	// BranchENIAnnotation is written by the VPC CNI on EKS when a pod gets
	// a branch network interface.
	BranchENIAnnotation = "vpc.amazonaws.com/pod-eni"
)

// Requeue windows. Successful reconciles poll slowly; failures come back
// quickly. Both are jittered so resources do not reconcile in lockstep.
const (
	successRequeueMin = 240 * time.Second
	successRequeueMax = 360 * time.Second
	errorRequeueMin   = 4 * time.Second
	errorRequeueMax   = 8 * time.Second
)

func jitter(lower, upper time.Duration) time.Duration {
	return lower + time.Duration(rand.Int63n(int64(upper-lower))) // nolint:gosec // jitter needs no crypto rand
}

func successResult() ctrl.Result {
	return ctrl.Result{RequeueAfter: jitter(successRequeueMin, successRequeueMax)}
}

func errorResult() ctrl.Result {
	return ctrl.Result{RequeueAfter: jitter(errorRequeueMin, errorRequeueMax)}
}
