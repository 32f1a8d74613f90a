//go:build !ignore_uncovered
// +build !ignore_uncovered

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Important: Run "make" to regenerate code after modifying this file

// +kubebuilder:object:root=true

// Eip is the Schema for the Eips API. An Eip represents a single AWS
// Elastic IP address owned by this cluster and the pod or node it should
// be associated with.
// +kubebuilder:resource:shortName=eip,scope=Namespaced
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="AllocationID",type=string,JSONPath=`.status.allocationId`
// +kubebuilder:printcolumn:name="PublicIP",type=string,JSONPath=`.status.publicIpAddress`
// +kubebuilder:printcolumn:name="Selector",type=string,priority=1,JSONPath=`.spec.selector`
// +kubebuilder:printcolumn:name="ENI",type=string,priority=1,JSONPath=`.status.eni`
// +kubebuilder:printcolumn:name="PrivateIP",type=string,priority=1,JSONPath=`.status.privateIpAddress`
type Eip struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   EipSpec   `json:"spec,omitempty"`
	Status EipStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// EipList contains a list of Eip
type EipList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Eip `json:"items"`
}

// EipSelector picks the association target for an address. Exactly one of
// PodName or NodeSelector must be set.
// +kubebuilder:validation:XValidation:rule="has(self.podName) != has(self.nodeSelector)",message="exactly one of podName and nodeSelector must be set"
type EipSelector struct {
	// PodName is the name of a pod in the Eip's namespace to associate the
	// address with.
	// +kubebuilder:validation:MaxLength=253
	// +optional
	PodName string `json:"podName,omitempty"`
	// NodeSelector selects nodes by label; the address is associated with
	// the primary interface of a matching node.
	// +optional
	NodeSelector map[string]string `json:"nodeSelector,omitempty"`
}

// EipSpec defines the desired state of Eip
type EipSpec struct {
	// Selector describes the pod or node to associate the address with.
	Selector EipSelector `json:"selector"`
}

// EipStatus defines the observed state of Eip
type EipStatus struct {
	// AllocationID of the EC2 address, once allocated.
	// +optional
	AllocationID string `json:"allocationId,omitempty"`
	// PublicIPAddress of the EC2 address, once allocated.
	// +optional
	PublicIPAddress string `json:"publicIpAddress,omitempty"`
	// ENI is the ID of the network interface the address is associated with.
	// +optional
	ENI string `json:"eni,omitempty"`
	// PrivateIPAddress is the interface address the public IP is mapped to.
	// +optional
	PrivateIPAddress string `json:"privateIpAddress,omitempty"`
}

// Attached reports whether the address is currently associated with an
// interface.
func (e *Eip) Attached() bool {
	return e.Status.PrivateIPAddress != ""
}

// AllocationID returns the allocation ID recorded in status, or empty if the
// address has not been created yet.
func (e *Eip) AllocationID() string {
	return e.Status.AllocationID
}

func init() {
	SchemeBuilder.Register(&Eip{}, &EipList{})
}
