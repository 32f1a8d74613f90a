// Package eip installs the Eip CustomResourceDefinition and provides typed
// helpers for working with it.
package eip

import (
	"context"
	_ "embed"
	"reflect"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	v1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	apiextensionsclient "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset"
	typedv1 "k8s.io/apiextensions-apiserver/pkg/client/clientset/clientset/typed/apiextensions/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/rest"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"
)

//go:embed manifests/eip.necaris.dev_eips.yaml
var EipsYAML []byte

// CRDName is the metadata.name of the Eip CustomResourceDefinition.
const CRDName = "eips.eip.necaris.dev"

const fieldManager = "eip-operator"

// GetEips parses the embedded Eip CRD manifest.
func GetEips() (*v1.CustomResourceDefinition, error) {
	eips := &v1.CustomResourceDefinition{}
	if err := yaml.Unmarshal(EipsYAML, &eips); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling embedded eips crd")
	}
	return eips, nil
}

// Installer manages the lifecycle of the Eip CRD.
type Installer struct {
	cli typedv1.CustomResourceDefinitionInterface
}

func NewInstaller(c *rest.Config) (*Installer, error) {
	clientset, err := apiextensionsclient.NewForConfig(c)
	if err != nil {
		return nil, errors.Wrap(err, "failed to init crd client")
	}

	return &Installer{
		cli: clientset.ApiextensionsV1().CustomResourceDefinitions(),
	}, nil
}

// InstallOrUpdate creates the embedded Eip CRD, applies it over an existing
// copy if the served versions differ, and waits for the CRD to report
// Established.
func (i *Installer) InstallOrUpdate(ctx context.Context) error {
	eips, err := GetEips()
	if err != nil {
		return errors.Wrap(err, "failed to get embedded eips crd")
	}
	current, err := i.cli.Create(ctx, eips, metav1.CreateOptions{})
	switch {
	case err == nil:
		// freshly created
	case apierrors.IsAlreadyExists(err):
		current, err = i.cli.Get(ctx, eips.Name, metav1.GetOptions{})
		if err != nil {
			return errors.Wrap(err, "failed to get existing eips crd")
		}
		if !reflect.DeepEqual(current.Spec.Versions, eips.Spec.Versions) {
			if err := i.apply(ctx, eips); err != nil {
				return err
			}
		}
	default:
		return errors.Wrap(err, "failed to create eips crd")
	}
	return i.waitEstablished(ctx)
}

func (i *Installer) apply(ctx context.Context, eips *v1.CustomResourceDefinition) error {
	data, err := yaml.Marshal(eips)
	if err != nil {
		return errors.Wrap(err, "failed to marshal eips crd")
	}
	_, err = i.cli.Patch(ctx, eips.Name, types.ApplyPatchType, data, metav1.PatchOptions{
		Force:        ptr.To(true),
		FieldManager: fieldManager,
	})
	return errors.Wrap(err, "failed to apply eips crd")
}

// waitEstablished polls until the CRD reports the Established condition,
// giving the API server a bounded window to accept the new type.
func (i *Installer) waitEstablished(ctx context.Context) error {
	err := retry.Do(func() error {
		crd, err := i.cli.Get(ctx, CRDName, metav1.GetOptions{})
		if err != nil {
			return errors.Wrap(err, "failed to get eips crd")
		}
		for _, cond := range crd.Status.Conditions {
			if cond.Type == v1.Established && cond.Status == v1.ConditionTrue {
				return nil
			}
		}
		return errors.New("eips crd not yet established")
	},
		retry.Context(ctx),
		retry.Attempts(20),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
	)
	return errors.Wrap(err, "eips crd failed to become established")
}
